// Package puzzleburst overlays an interlocking jigsaw grid on a surface and
// animates a staged "piece explosion" that reveals whatever sits underneath.
//
// The package has two cooperating cores. The layout generator ([NewGrid],
// [ShapeForPiece]) builds an R x C grid of piece descriptors with
// complementary tab/blank edges and traces each piece's closed outline from
// line and cubic Bezier segments. The stage sequencer ([NewSequencer]) drives
// the fixed explode -> secondary-fade -> base-reveal sequence, interpolating
// every object's transform and opacity from elapsed wall-clock time on each
// frame.
//
// # Quick start
//
//	grid, err := puzzleburst.NewGrid(5, 5, nil)
//	if err != nil { ... }
//
//	factory := puzzleburst.NewSpriteFactory()
//	model := puzzleburst.StaticModel{Loaded: true, Rect: puzzleburst.Rect{Width: 640, Height: 480}}
//	seq, err := puzzleburst.NewSequencer(grid, model, factory, puzzleburst.DefaultConfig())
//	if err != nil { ... }
//
// Then, per frame:
//
//	seq.Update(time.Now())   // in your game's Update
//	factory.Draw(screen)     // in your game's Draw
//
// Click handling goes through [Sequencer.TriggerAt], which hit-tests the
// pointer against the piece contours and starts the sequence with the picked
// piece playing the feature animation. [Sequencer.Restart] returns everything
// to its pre-trigger state from any stage.
//
// The sequencer is single-threaded and frame-driven; nothing in this package
// is safe for concurrent use.
package puzzleburst
