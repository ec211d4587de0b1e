package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxypic/internal/viewer"
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/pipeline"
	"github.com/matzehuels/boxypic/pkg/raster"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/sink"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "photo.jpg", "photo.boxy"},
		{"", "dir/photo.jpeg", "dir/photo.boxy"},
		{"out.png", "photo.jpg", "out"},
		{"out.jpg", "photo.jpg", "out"},
		{"out.tree.svg", "photo.jpg", "out"},
		{"out", "photo.jpg", "out"},
		{"out.v2", "photo.jpg", "out.v2"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		format sink.Format
		single bool
		want   string
	}{
		{"derived png", "", sink.FormatPNG, true, "photo.boxy.png"},
		{"derived jpeg", "", sink.FormatJPEG, true, "photo.boxy.jpg"},
		{"derived tree", "", sink.FormatTree, false, "photo.boxy.tree.svg"},
		{"explicit single", "blocks.png", sink.FormatPNG, true, "blocks.png"},
		{"explicit single keeps name", "blocks", sink.FormatSVG, true, "blocks"},
		{"explicit base", "blocks.png", sink.FormatSVG, false, "blocks.svg"},
		{"explicit base json", "blocks", sink.FormatJSON, false, "blocks.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, "photo.jpg", tt.format, tt.single); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParamFlagsApplyOnlyChanged(t *testing.T) {
	var p paramFlags
	cmd := &cobra.Command{Use: "x"}
	p.registerBuild(cmd)
	p.registerRender(cmd)
	if err := cmd.ParseFlags([]string{"-t", "12.5", "--grid"}); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.DefaultOptions()
	opts.MaxDepth = 3
	opts.Outline = false
	p.apply(cmd, &opts)

	if opts.Threshold != 12.5 {
		t.Errorf("Threshold = %v, want 12.5", opts.Threshold)
	}
	if !opts.Grid {
		t.Error("Grid should be set")
	}
	// Unset flags keep the config values even where the flag default differs.
	if opts.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", opts.MaxDepth)
	}
	if opts.Outline {
		t.Error("Outline should stay off")
	}
}

func TestKeyInput(t *testing.T) {
	tests := []struct {
		key  string
		want viewer.Input
		ok   bool
	}{
		{"e", viewer.Input{ThresholdDown: true}, true},
		{"Q", viewer.Input{ThresholdUp: true}, true},
		{"w", viewer.Input{ToggleOutline: true}, true},
		{"g", viewer.Input{ToggleGreyscale: true}, true},
		{"f", viewer.Input{ToggleFill: true}, true},
		{"m", viewer.Input{ToggleGrid: true}, true},
		{"up", viewer.Input{DepthUp: true}, true},
		{"down", viewer.Input{DepthDown: true}, true},
		{"esc", viewer.Input{Quit: true}, true},
		{"end", viewer.Input{Quit: true}, true},
		{"ctrl+c", viewer.Input{Quit: true}, true},
		{"x", viewer.Input{}, false},
	}

	for _, tt := range tests {
		got, ok := keyInput(tt.key)
		if ok != tt.ok || got != tt.want {
			t.Errorf("keyInput(%q) = %+v, %v; want %+v, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func quadrants() *raster.Image {
	img := raster.New(16, 16)
	img.Fill(0, 0, 8, 8, 255, 0, 0)
	img.Fill(8, 0, 16, 8, 0, 255, 0)
	img.Fill(0, 8, 8, 16, 0, 0, 255)
	img.Fill(8, 8, 16, 16, 255, 255, 255)
	return img
}

func TestPreviewModel(t *testing.T) {
	var m tea.Model = newPreviewModel(quadrants(), viewer.DefaultControls(), render.DefaultPalette(), pipeline.DefaultNodeLimit)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 16, Height: 10})
	pm := m.(previewModel)
	if pm.stats.Leaves != 4 {
		t.Errorf("leaves = %d, want 4", pm.stats.Leaves)
	}
	if pm.frame == "" {
		t.Fatal("frame should be drawn after a resize")
	}
	if !strings.Contains(pm.View(), "4 leaves") {
		t.Errorf("View() should show the leaf count, got %q", pm.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if !m.(previewModel).ctl.Greyscale {
		t.Error("g should toggle greyscale")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.(previewModel).ctl.Depth; got != viewer.DefaultControls().Depth-1 {
		t.Errorf("depth = %d after down", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should return tea.Quit")
	}
}

func TestPreviewModelKeepsFrameOverLimit(t *testing.T) {
	ctl := viewer.DefaultControls()
	ctl.Depth = 0
	var m tea.Model = newPreviewModel(quadrants(), ctl, render.DefaultPalette(), 2)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 16, Height: 10})
	before := m.(previewModel)
	if before.err != nil {
		t.Fatalf("depth 0 should fit the limit: %v", before.err)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	after := m.(previewModel)
	if after.err == nil {
		t.Fatal("depth 1 should exceed a limit of 2 nodes")
	}
	if after.ctl.Depth != 0 || after.frame != before.frame {
		t.Error("a failed frame should keep the previous controls and frame")
	}
}

func TestFitImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	tests := []struct {
		cols, rows int
		w, h       int
	}{
		{100, 100, 100, 50},
		{400, 10, 40, 20},
		{1, 1, 1, 1},
	}
	for _, tt := range tests {
		got := fitImage(src, tt.cols, tt.rows).Bounds()
		if got.Dx() != tt.w || got.Dy() != tt.h {
			t.Errorf("fitImage(%d, %d) = %dx%d, want %dx%d", tt.cols, tt.rows, got.Dx(), got.Dy(), tt.w, tt.h)
		}
	}
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 5))
	out := halfBlocks(img)
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("rows = %d, want 3", n)
	}
	if n := strings.Count(out, "▀"); n != 9 {
		t.Errorf("cells = %d, want 9", n)
	}
}

func TestHistogram(t *testing.T) {
	out := histogram([]int{0, 1, 40})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if strings.Contains(lines[0], "█") {
		t.Error("empty depth should have no bar")
	}
	if got := strings.Count(lines[1], "█"); got != 1 {
		t.Errorf("small count bar = %d, want 1", got)
	}
	if got := strings.Count(lines[2], "█"); got != histogramWidth {
		t.Errorf("peak bar = %d, want %d", got, histogramWidth)
	}
}

// writePNG saves the quadrants image to dir and returns its path.
func writePNG(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, quadrants().RGBA()); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "quads.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRoot(t *testing.T, stdout io.Writer, args ...string) *cobra.Command {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir)
	out := filepath.Join(dir, "blocks")

	root := newTestRoot(t, io.Discard, "render", in, "-f", "png,json", "-o", out, "--no-cache")
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(out + ".png")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if _, err := os.Stat(out + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}
}

func TestRenderCommandKeepsInput(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir)
	orig, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}

	root := newTestRoot(t, io.Discard, "render", in, "--no-cache", "--grid")
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "quads.boxy.png")); err != nil {
		t.Errorf("derived output missing: %v", err)
	}

	root = newTestRoot(t, io.Discard, "render", in, "--no-cache", "-o", in)
	err = root.ExecuteContext(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("rendering onto the input = %v, want INVALID_PATH", err)
	}

	after, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(after, orig) {
		t.Error("input image was modified")
	}
}

func TestRenderCommandStdout(t *testing.T) {
	in := writePNG(t, t.TempDir())
	var stdout bytes.Buffer

	root := newTestRoot(t, &stdout, "render", in, "-f", "svg", "-o", "-")
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stdout.String(), "<svg") {
		t.Errorf("stdout should hold the SVG, got %q", stdout.String())
	}
}

func TestRenderCommandMissingFile(t *testing.T) {
	root := newTestRoot(t, io.Discard, "render", filepath.Join(t.TempDir(), "nope.png"))
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error for a missing input")
	}
}

func TestStatsCommandJSON(t *testing.T) {
	in := writePNG(t, t.TempDir())
	var stdout bytes.Buffer

	root := newTestRoot(t, &stdout, "stats", in, "--json", "-d", "4")
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("stats: %v", err)
	}

	var sum pipeline.Summary
	if err := json.Unmarshal(stdout.Bytes(), &sum); err != nil {
		t.Fatalf("decode %q: %v", stdout.String(), err)
	}
	if sum.Tree.Leaves != 4 || sum.MaxDepth != 4 || sum.Width != 16 {
		t.Errorf("summary = %+v", sum)
	}
}
