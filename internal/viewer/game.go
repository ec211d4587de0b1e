package viewer

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/raster"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/surface"
)

const (
	// Title is the window title.
	Title = "BOXYPIC"

	// TPS paces the loop at roughly one frame per 10ms.
	TPS = 100
)

// Config configures Run.
type Config struct {
	Controls  Controls
	Palette   render.Palette
	NodeLimit int
	Logger    *log.Logger
}

// Run opens a window the size of src and blocks until the user quits, the
// window is closed, or ctx is done.
func Run(ctx context.Context, src *raster.Image, cfg Config) error {
	if err := errors.ValidateDimensions(src.Width(), src.Height()); err != nil {
		return err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	g := newGame(ctx, src, cfg)
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowSize(src.Width(), src.Height())
	ebiten.SetTPS(TPS)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return ctx.Err()
}

type game struct {
	ctx    context.Context
	src    *raster.Image
	cfg    Config
	ctl    Controls
	canvas *surface.Canvas
	screen *ebiten.Image
	leaves int
}

func newGame(ctx context.Context, src *raster.Image, cfg Config) *game {
	return &game{
		ctx:    ctx,
		src:    src,
		cfg:    cfg,
		ctl:    cfg.Controls,
		canvas: surface.NewCanvas(src.Width(), src.Height()),
	}
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	next, quit := g.ctl.Step(pollInput())
	if quit {
		return ebiten.Termination
	}
	if next.Params() != g.ctl.Params() {
		g.cfg.Logger.Debug("parameters", "threshold", fmt.Sprintf("%.1f", next.Threshold), "depth", next.Depth)
	}

	stats, err := Draw(g.src, next, g.cfg.Palette, g.canvas, g.cfg.NodeLimit)
	if errors.Is(err, errors.ErrCodeResourceExhausted) {
		// Keep the previous parameters and frame.
		g.cfg.Logger.Warn("frame skipped", "depth", next.Depth, "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	g.ctl = next
	if stats.Leaves != g.leaves {
		g.cfg.Logger.Debug("frame", "leaves", stats.Leaves, "depth", stats.Depth)
		g.leaves = stats.Leaves
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(g.src.Width(), g.src.Height())
	}
	g.screen.WritePixels(g.canvas.Image().Pix)
	screen.DrawImage(g.screen, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.src.Width(), g.src.Height()
}

func pollInput() Input {
	return Input{
		ThresholdDown:   ebiten.IsKeyPressed(ebiten.KeyE),
		ThresholdUp:     ebiten.IsKeyPressed(ebiten.KeyQ),
		HideOutline:     ebiten.IsKeyPressed(ebiten.KeyW),
		Quit:            ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyEnd),
		DepthUp:         inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		DepthDown:       inpututil.IsKeyJustPressed(ebiten.KeyArrowDown),
		ToggleGreyscale: inpututil.IsKeyJustPressed(ebiten.KeyG),
		ToggleFill:      inpututil.IsKeyJustPressed(ebiten.KeyF),
		ToggleGrid:      inpututil.IsKeyJustPressed(ebiten.KeyM),
	}
}
