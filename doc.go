// Package scratch is an interpreter for Scratch 3.0 projects: it builds a
// runnable block tree from a project's sb3 archive, schedules each sprite's
// scripts cooperatively, and renders the result through a pluggable
// [DrawingSink] — concretely, [EbitenSink] on top of [Ebitengine].
//
// # Quick start
//
//	project, err := scratch.LoadProjectFromZip(r, size)
//	sink := scratch.NewEbitenSink()
//	vm, err := scratch.NewVM(project, sink)
//	scratch.Run(vm, sink, scratch.RunConfig{Title: "My Project", Width: 480, Height: 360})
//
// For full control over the loop, call [VM.Tick] yourself once per frame
// instead of [Run]:
//
//	type Game struct {
//		vm     *scratch.VM
//		sink   *scratch.EbitenSink
//		source *scratch.EbitenEventSource
//	}
//
//	func (g *Game) Update() error { return g.vm.Tick(context.Background(), g.source) }
//	func (g *Game) Draw(screen *ebiten.Image) { g.sink.Present(screen) }
//
// # Execution model
//
// A project is a set of sprites ([Sprite]), each owning one [SpriteRuntime]
// and a [Thread] per hat block (green-flag, broadcast-received, clicked,
// start-as-clone). [VM.Tick] steps every thread exactly once per tick, drains
// control messages from the [Broadcaster] (clone/stop/layer-change), and
// redraws sprites whose runtime was marked dirty.
//
// Variables are shared through [VariableStore]; cross-script coordination
// (broadcast, stop, clone) goes through [Broadcaster]'s typed pub/sub bus
// rather than direct calls between threads, so a thread never blocks another
// except by the single-stepped scheduling order itself.
//
// Glide and tween-based motion blocks (motion_glideto, motion_glidesecstoxy)
// use [gween] the same way the interpreter's ambient animation plumbing
// always has.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package scratch
