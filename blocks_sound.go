package scratch

import "context"

// Sound playback is excluded (spec.md Non-goals). These blocks still
// register so a project referencing them builds and runs; each is a no-op
// that forwards to next.
func init() {
	registerBlock("sound_play", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_play"} })
	registerBlock("sound_playuntildone", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_playuntildone"} })
	registerBlock("sound_stopallsounds", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_stopallsounds"} })
	registerBlock("sound_seteffectto", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_seteffectto"} })
	registerBlock("sound_changeeffectby", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_changeeffectby"} })
	registerBlock("sound_cleareffects", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_cleareffects"} })
	registerBlock("sound_setvolumeto", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_setvolumeto"} })
	registerBlock("sound_changevolumeby", func(id BlockID) Block { return &noopSoundBlock{baseBlock: newBase(id), name: "sound_changevolumeby"} })
}

type noopSoundBlock struct {
	baseBlock
	name string
}

func (b *noopSoundBlock) Name() string            { return b.name }
func (b *noopSoundBlock) BlockInputs() BlockInputs { return b.blockInputs(b.name) }
func (b *noopSoundBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *noopSoundBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	return nextOrDone(b.stacks["next"])
}
