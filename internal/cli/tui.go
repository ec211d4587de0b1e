package cli

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/matzehuels/boxypic/internal/viewer"
	"github.com/matzehuels/boxypic/pkg/pipeline"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/raster"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/surface"
)

// statusLines is the number of terminal rows below the picture.
const statusLines = 2

// tuiCommand opens the terminal preview.
func (c *CLI) tuiCommand() *cobra.Command {
	var params paramFlags

	cmd := &cobra.Command{
		Use:   "tui <image>",
		Short: "Tune the decomposition interactively in the terminal",
		Long: `Draw the rendered blocks with half-block characters and rebuild the
quadtree on every key press. Uses the keys of "boxypic view", except that W
toggles the outline since terminals do not report held keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &params)
			if err := opts.Params().Validate(); err != nil {
				return err
			}
			img, err := loadImage(cmd.Context(), args[0], opts.MaxSize)
			if err != nil {
				return err
			}
			m := newPreviewModel(img, controls(opts), opts.Palette, pipeline.DefaultNodeLimit)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	params.registerBuild(cmd)
	params.registerRender(cmd)
	return cmd
}

// =============================================================================
// previewModel - Terminal frame loop
// =============================================================================

var (
	previewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// previewModel is the bubbletea model of the terminal preview. Each key
// press is one frame: a fresh tree is built, drawn and scaled down to the
// terminal.
type previewModel struct {
	src       *raster.Image
	ctl       viewer.Controls
	palette   render.Palette
	canvas    *surface.Canvas
	nodeLimit int

	width  int
	height int
	frame  string
	stats  quadtree.Stats
	err    error
}

func newPreviewModel(src *raster.Image, ctl viewer.Controls, pal render.Palette, nodeLimit int) previewModel {
	return previewModel{
		src:       src,
		ctl:       ctl,
		palette:   pal,
		canvas:    surface.NewCanvas(src.Width(), src.Height()),
		nodeLimit: nodeLimit,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		in, ok := keyInput(msg.String())
		if !ok {
			return m, nil
		}
		next, quit := m.ctl.Step(in)
		if quit {
			return m, tea.Quit
		}
		return m.redraw(next), nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.redraw(m.ctl), nil
	}
	return m, nil
}

// redraw renders ctl. On failure the previous controls and frame stay.
func (m previewModel) redraw(ctl viewer.Controls) previewModel {
	stats, err := viewer.Draw(m.src, ctl, m.palette, m.canvas, m.nodeLimit)
	m.err = err
	if err != nil {
		return m
	}
	m.ctl = ctl
	m.stats = stats
	if m.width > 0 && m.height > statusLines {
		m.frame = halfBlocks(fitImage(m.canvas.Image(), m.width, m.height-statusLines))
	}
	return m
}

func (m previewModel) View() string {
	if m.frame == "" {
		return previewHelpStyle.Render("rendering…")
	}
	var b strings.Builder
	b.WriteString(m.frame)
	b.WriteString(previewStatusStyle.Render(m.status()))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
	} else {
		b.WriteString(previewHelpStyle.Render("e/q threshold  ↑/↓ depth  w outline  g greyscale  f fill  m grid  esc quit"))
	}
	return b.String()
}

func (m previewModel) status() string {
	onOff := func(name string, on bool) string {
		if on {
			return name + " on"
		}
		return name + " off"
	}
	return strings.Join([]string{
		fmt.Sprintf("threshold %.1f", m.ctl.Threshold),
		fmt.Sprintf("depth %d", m.ctl.Depth),
		fmt.Sprintf("%d leaves", m.stats.Leaves),
		onOff("outline", m.ctl.Outline),
		onOff("fill", m.ctl.Fill),
		onOff("greyscale", m.ctl.Greyscale),
		onOff("grid", m.ctl.Grid),
	}, " · ")
}

// keyInput maps a bubbletea key to frame input. Terminals report presses,
// not held keys, so each press steps the threshold once.
func keyInput(key string) (viewer.Input, bool) {
	switch strings.ToLower(key) {
	case "e":
		return viewer.Input{ThresholdDown: true}, true
	case "q":
		return viewer.Input{ThresholdUp: true}, true
	case "w":
		return viewer.Input{ToggleOutline: true}, true
	case "g":
		return viewer.Input{ToggleGreyscale: true}, true
	case "f":
		return viewer.Input{ToggleFill: true}, true
	case "m":
		return viewer.Input{ToggleGrid: true}, true
	case "up":
		return viewer.Input{DepthUp: true}, true
	case "down":
		return viewer.Input{DepthDown: true}, true
	case "esc", "end", "ctrl+c":
		return viewer.Input{Quit: true}, true
	}
	return viewer.Input{}, false
}

// fitImage scales img with nearest-neighbour sampling to fit cols x rows
// terminal cells, each cell holding two vertically stacked pixels.
func fitImage(img *image.RGBA, cols, rows int) *image.RGBA {
	b := img.Bounds()
	scale := min(float64(cols)/float64(b.Dx()), float64(2*rows)/float64(b.Dy()))
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// halfBlocks draws img with "▀": the foreground is the upper pixel and the
// background the lower one. An odd last row leaves the background unset.
func halfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	type cell struct {
		top, bottom color.RGBA
		half        bool
	}
	styles := make(map[cell]lipgloss.Style)
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			key := cell{top: img.RGBAAt(x, y), half: y+1 == b.Max.Y}
			if !key.half {
				key.bottom = img.RGBAAt(x, y+1)
			}
			st, ok := styles[key]
			if !ok {
				st = lipgloss.NewStyle().Foreground(hexColor(key.top))
				if !key.half {
					st = st.Background(hexColor(key.bottom))
				}
				styles[key] = st
			}
			sb.WriteString(st.Render("▀"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
