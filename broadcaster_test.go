package scratch

import "testing"

func TestBroadcasterEdgeTriggered(t *testing.T) {
	b := NewBroadcaster()
	b.Send(BroadcastMsg{Kind: KindStart, Name: "before"})

	sub := b.Subscribe()
	defer sub.Unsubscribe()

	select {
	case msg := <-sub.C():
		t.Fatalf("subscriber saw pre-subscription message %+v, want none", msg)
	default:
	}

	b.Send(BroadcastMsg{Kind: KindStart, Name: "after"})
	select {
	case msg := <-sub.C():
		if msg.Name != "after" {
			t.Errorf("Name = %q, want %q", msg.Name, "after")
		}
	default:
		t.Fatal("expected post-subscription message to be delivered")
	}
}

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster()
	s1 := b.Subscribe()
	s2 := b.Subscribe()
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	b.Send(BroadcastMsg{Kind: KindStart, Name: "go"})

	for _, s := range []*Subscription{s1, s2} {
		select {
		case msg := <-s.C():
			if msg.Name != "go" {
				t.Errorf("Name = %q, want %q", msg.Name, "go")
			}
		default:
			t.Fatal("expected every subscriber to receive the broadcast")
		}
	}
}

func TestBroadcasterCount(t *testing.T) {
	b := NewBroadcaster()
	if b.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", b.Count())
	}
	sub := b.Subscribe()
	if b.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", b.Count())
	}
	sub.Unsubscribe()
	if b.Count() != 0 {
		t.Fatalf("Count() after unsubscribe = %d, want 0", b.Count())
	}
}

func TestBroadcasterDrainSince(t *testing.T) {
	b := NewBroadcaster()
	b.Send(BroadcastMsg{Kind: KindClone, Sprite: 1})
	msgs, cursor := b.DrainSince(0)
	if len(msgs) != 1 || msgs[0].Sprite != 1 {
		t.Fatalf("DrainSince(0) = %+v, want one clone message", msgs)
	}

	b.Send(BroadcastMsg{Kind: KindClone, Sprite: 2})
	msgs, cursor = b.DrainSince(cursor)
	if len(msgs) != 1 || msgs[0].Sprite != 2 {
		t.Fatalf("DrainSince after second send = %+v, want sprite 2 only", msgs)
	}

	msgs, _ = b.DrainSince(cursor)
	if len(msgs) != 0 {
		t.Fatalf("DrainSince with nothing new = %+v, want empty", msgs)
	}
}

func TestStopMatches(t *testing.T) {
	tid := ThreadID{Sprite: 1, Index: 0}
	other := ThreadID{Sprite: 1, Index: 1}
	elsewhere := ThreadID{Sprite: 2, Index: 0}

	if !StopAll().Matches(tid) {
		t.Error("StopAll should match any thread")
	}
	if !StopThisThread(tid).Matches(tid) {
		t.Error("StopThisThread should match its own thread")
	}
	if StopThisThread(tid).Matches(other) {
		t.Error("StopThisThread should not match a different thread")
	}
	so := StopOtherThreads(tid)
	if so.Matches(tid) {
		t.Error("StopOtherThreads should not match the issuing thread itself")
	}
	if !so.Matches(other) {
		t.Error("StopOtherThreads should match a sibling thread in the same sprite")
	}
	if so.Matches(elsewhere) {
		t.Error("StopOtherThreads should not match a thread in a different sprite")
	}
}
