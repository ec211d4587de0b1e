package cache

import "fmt"

// ArtifactKeyOpts holds every input that changes an encoded artifact.
type ArtifactKeyOpts struct {
	Threshold float64 `json:"t"`
	MaxDepth  int     `json:"d"`
	Format    string  `json:"f"`
	Engine    string  `json:"e,omitempty"`
	Quality   int     `json:"q,omitempty"`
	Outline   bool    `json:"o"`
	Greyscale bool    `json:"g"`
	Fill      bool    `json:"fi"`
	Grid      bool    `json:"gr"`
	// Palette is the outline, contrast and separator colors as hex strings.
	Palette [3]string `json:"p"`
	// MaxSize is the downscale bound applied before building.
	MaxSize int `json:"m,omitempty"`
}

// StatsKeyOpts holds every input that changes tree stats.
type StatsKeyOpts struct {
	Threshold float64 `json:"t"`
	MaxDepth  int     `json:"d"`
	MaxSize   int     `json:"m,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	ArtifactKey(imageHash string, opts ArtifactKeyOpts) string
	StatsKey(imageHash string, opts StatsKeyOpts) string
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(imageHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), imageHash, opts)
}

// StatsKey returns "stats:<hash>".
func (DefaultKeyer) StatsKey(imageHash string, opts StatsKeyOpts) string {
	return hashKey("stats", imageHash, opts)
}
