package scratch

import (
	"context"
	"testing"
	"time"
)

// TestS1MoveTwoSteps exercises spec scenario S1: whenflagclicked ->
// movesteps(1) -> movesteps(1). x should reach 2 within three steps (the hat
// plus the two movesteps), and the thread should be done once the second
// movesteps finishes.
func TestS1MoveTwoSteps(t *testing.T) {
	hatID := BlockIDFromString("hat")
	step1ID := BlockIDFromString("step1")
	step2ID := BlockIDFromString("step2")
	lit1ID := BlockIDFromString("lit1")
	lit2ID := BlockIDFromString("lit2")

	hat := &whenFlagClickedBlock{baseBlock: newBase(hatID)}
	hat.SetSubstack("next", step1ID)

	step1 := &moveStepsBlock{baseBlock: newBase(step1ID)}
	step1.SetInput("STEPS", lit1ID)
	step1.SetSubstack("next", step2ID)

	step2 := &moveStepsBlock{baseBlock: newBase(step2ID)}
	step2.SetInput("STEPS", lit2ID)

	blocks := map[BlockID]Block{
		hatID:   hat,
		step1ID: step1,
		step2ID: step2,
		lit1ID:  newLiteralBlock(lit1ID, NumberValue(1)),
		lit2ID:  newLiteralBlock(lit2ID, NumberValue(1)),
	}

	rt := NewSpriteRuntime(1, SpriteRectangle{}, nil, NewVariableStore(nil), NewBroadcaster())
	thread := NewThread(ThreadID{Sprite: 1}, hatID, blocks)

	for i := 0; i < 3 && !thread.Done(); i++ {
		if thread.Step(context.Background(), rt) == StepFailed {
			t.Fatalf("step %d failed: %v", i, thread.Err())
		}
	}

	if got := rt.Center().X; got != 2 {
		t.Errorf("x = %v, want 2", got)
	}
	if !thread.Done() {
		t.Error("expected thread to be done after the hat and two movesteps ticks")
	}
}

// TestS2RepeatChangeX exercises spec scenario S2: repeat 3 times { changex
// 10 }. x should end at 30, the thread done, and the repeat block's cursor
// visited exactly 4 times (3 loop entries plus the terminal exit).
func TestS2RepeatChangeX(t *testing.T) {
	repeatID := BlockIDFromString("repeat")
	changeID := BlockIDFromString("changex")
	timesID := BlockIDFromString("times")
	deltaID := BlockIDFromString("delta")

	repeat := &repeatBlock{baseBlock: newBase(repeatID)}
	repeat.SetInput("TIMES", timesID)
	repeat.SetSubstack("SUBSTACK", changeID)

	change := &changeXYByBlock{baseBlock: newBase(changeID), axis: axisX}
	change.SetInput("DX", deltaID)

	blocks := map[BlockID]Block{
		repeatID: repeat,
		changeID: change,
		timesID:  newLiteralBlock(timesID, NumberValue(3)),
		deltaID:  newLiteralBlock(deltaID, NumberValue(10)),
	}

	rt := NewSpriteRuntime(1, SpriteRectangle{}, nil, NewVariableStore(nil), NewBroadcaster())
	thread := NewThread(ThreadID{Sprite: 1}, repeatID, blocks)

	visits := 0
	for i := 0; i < 20 && !thread.Done(); i++ {
		if thread.Cursor() == repeatID {
			visits++
		}
		if thread.Step(context.Background(), rt) == StepFailed {
			t.Fatalf("step %d failed: %v", i, thread.Err())
		}
	}

	if !thread.Done() {
		t.Fatal("expected thread to be done once the repeat count is exhausted")
	}
	if got := rt.Center().X; got != 30 {
		t.Errorf("x = %v, want 30", got)
	}
	if visits != 4 {
		t.Errorf("repeat block visited %d times, want 4 (3 loops + 1 terminal)", visits)
	}
	if len(thread.loopStack) != 0 {
		t.Errorf("loopStack = %v, want empty once the loop has fully unwound", thread.loopStack)
	}
}

// TestWaitBlockSelfPollDoesNotGrowLoopStack guards against the loop-stack
// corruption bug: control_wait must self-suspend with a plain Continue
// (NextTo), not NextLoop, or the stale pushes are never popped and a
// trailing control_stop incorrectly resumes the wait block instead of
// terminating the thread.
func TestWaitBlockSelfPollDoesNotGrowLoopStack(t *testing.T) {
	waitID := BlockIDFromString("wait")
	stopID := BlockIDFromString("stop")
	durID := BlockIDFromString("dur")

	wait := &waitBlock{baseBlock: newBase(waitID)}
	wait.SetInput("DURATION", durID)
	wait.SetSubstack("next", stopID)

	stop := &stopBlock{baseBlock: newBase(stopID)}
	stop.SetField("STOP_OPTION", []string{"this script"})

	blocks := map[BlockID]Block{
		waitID: wait,
		stopID: stop,
		durID:  newLiteralBlock(durID, NumberValue(0.02)),
	}

	rt := NewSpriteRuntime(1, SpriteRectangle{}, nil, NewVariableStore(nil), NewBroadcaster())
	thread := NewThread(ThreadID{Sprite: 1}, waitID, blocks)

	deadline := time.Now().Add(time.Second)
	for !thread.Done() {
		if time.Now().After(deadline) {
			t.Fatal("thread never completed; likely stuck replaying a stale wait cursor off loopStack")
		}
		if thread.Step(context.Background(), rt) == StepFailed {
			t.Fatalf("step failed: %v", thread.Err())
		}
		if len(thread.loopStack) != 0 {
			t.Fatalf("loopStack = %v, want empty throughout a self-polling wait", thread.loopStack)
		}
	}
}

// TestS5StopOtherScripts exercises spec scenario S5: T1 runs forever {
// changex(1) }, T2 waits then stops every other script in the sprite. T1
// must actually terminate, and T2's own stop must end T2 too rather than
// resuming a stale cursor left by the wait's self-poll.
func TestS5StopOtherScripts(t *testing.T) {
	foreverID := BlockIDFromString("forever")
	changeID := BlockIDFromString("changex")
	deltaID := BlockIDFromString("delta")
	waitID := BlockIDFromString("wait")
	stopID := BlockIDFromString("stop")
	durID := BlockIDFromString("dur")

	forever := &foreverBlock{baseBlock: newBase(foreverID)}
	forever.SetSubstack("SUBSTACK", changeID)
	change := &changeXYByBlock{baseBlock: newBase(changeID), axis: axisX}
	change.SetInput("DX", deltaID)

	wait := &waitBlock{baseBlock: newBase(waitID)}
	wait.SetInput("DURATION", durID)
	wait.SetSubstack("next", stopID)
	stop := &stopBlock{baseBlock: newBase(stopID)}
	stop.SetField("STOP_OPTION", []string{"other scripts in sprite"})

	blocks := map[BlockID]Block{
		foreverID: forever,
		changeID:  change,
		deltaID:   newLiteralBlock(deltaID, NumberValue(1)),
		waitID:    wait,
		stopID:    stop,
		durID:     newLiteralBlock(durID, NumberValue(0.02)),
	}

	broadcaster := NewBroadcaster()
	rt := NewSpriteRuntime(1, SpriteRectangle{}, nil, NewVariableStore(nil), broadcaster)

	t1 := NewThread(ThreadID{Sprite: 1, Index: 0}, foreverID, blocks)
	t2 := NewThread(ThreadID{Sprite: 1, Index: 1}, waitID, blocks)
	threads := []*Thread{t1, t2}

	cursor := 0
	deadline := time.Now().Add(time.Second)
	for !t1.Done() || !t2.Done() {
		if time.Now().After(deadline) {
			t.Fatal("scenario never settled; T1 or T2 is stuck")
		}
		for _, th := range threads {
			if th.Done() {
				continue
			}
			if th.Step(context.Background(), rt) == StepFailed {
				t.Fatalf("thread %v failed: %v", th.ID(), th.Err())
			}
		}

		msgs, next := broadcaster.DrainSince(cursor)
		cursor = next
		for _, msg := range msgs {
			if msg.Kind != KindStop {
				continue
			}
			for _, th := range threads {
				if msg.Stop.Matches(th.ID()) {
					th.Terminate()
				}
			}
		}
	}

	if !t1.Done() {
		t.Error("expected T1 (forever loop) to be stopped by T2's stop")
	}
	if !t2.Done() {
		t.Error("expected T2 to terminate normally after its own stop block ran")
	}
	if len(t2.loopStack) != 0 {
		t.Errorf("T2 loopStack = %v, want empty", t2.loopStack)
	}
}
