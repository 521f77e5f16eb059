package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/railyard/internal/block"
	"github.com/shinji-kodama/railyard/internal/loader"
	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/queue"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Manifest describes one allocation run: the mode, the knobs shared by the
// wagon loaders, and the input section for the selected mode. Sections for
// other modes may be present and are ignored.
type Manifest struct {
	// Name labels the run in reports.
	Name string `json:"name" yaml:"name"`

	// Mode selects the allocator: block, twenty, forty or mixed.
	Mode model.LoadMode `json:"mode" yaml:"mode"`

	Wagons       int     `json:"wagons,omitempty" yaml:"wagons,omitempty"`
	WeightLimit  float64 `json:"weightLimit,omitempty" yaml:"weightLimit,omitempty"`
	PairingLimit float64 `json:"pairingLimit,omitempty" yaml:"pairingLimit,omitempty"`
	Strict       bool    `json:"strict,omitempty" yaml:"strict,omitempty"`

	// SortTiers sorts every tier heaviest first before loading. Without it
	// the tiers are used in the order they are written.
	SortTiers bool `json:"sortTiers,omitempty" yaml:"sortTiers,omitempty"`

	Block  *BlockSection  `json:"block,omitempty" yaml:"block,omitempty"`
	Twenty *TwentySection `json:"twenty,omitempty" yaml:"twenty,omitempty"`
	Forty  *FortySection  `json:"forty,omitempty" yaml:"forty,omitempty"`
	Mixed  *MixedSection  `json:"mixed,omitempty" yaml:"mixed,omitempty"`

	path string
}

// BlockSection is the block allocator input.
type BlockSection struct {
	StackHeight int                   `json:"stackHeight" yaml:"stackHeight"`
	MaxBays     int                   `json:"maxBays" yaml:"maxBays"`
	MaxRows     int                   `json:"maxRows" yaml:"maxRows"`
	Categories  []model.CategoryCount `json:"categories" yaml:"categories"`
}

// TwentySection holds the 20ft weight tiers.
type TwentySection struct {
	Heavy  []float64 `json:"heavy" yaml:"heavy"`
	Medium []float64 `json:"medium" yaml:"medium"`
	Light  []float64 `json:"light" yaml:"light"`
}

// FortySection holds the two 40ft tier pairs.
type FortySection struct {
	FirstLower  []float64 `json:"firstLower" yaml:"firstLower"`
	FirstUpper  []float64 `json:"firstUpper" yaml:"firstUpper"`
	SecondLower []float64 `json:"secondLower" yaml:"secondLower"`
	SecondUpper []float64 `json:"secondUpper" yaml:"secondUpper"`
}

// MixedSection holds the queues of a mixed 20ft/40ft run.
type MixedSection struct {
	Twenty    []float64 `json:"twenty" yaml:"twenty"`
	Singles   []float64 `json:"singles" yaml:"singles"`
	PairLower []float64 `json:"pairLower" yaml:"pairLower"`
	PairUpper []float64 `json:"pairUpper" yaml:"pairUpper"`
	Balancer  []float64 `json:"balancer" yaml:"balancer"`
}

// Path returns the file the manifest was loaded from, or "" when it was
// built in memory.
func (m *Manifest) Path() string {
	return m.path
}

// Load reads a manifest file. The format follows the extension: .yaml and
// .yml are parsed as YAML, .json and .jsonc as JSON with comments.
//
// Returns a CLIError with ExitManifestNotFound if the file does not exist.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitManifestNotFound,
				fmt.Sprintf("manifest not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInvalidManifest,
			fmt.Sprintf("failed to parse manifest at %s", path),
			err,
		)
	}
	m.path = path
	return m, nil
}

// Format is the encoding of a manifest file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Parse decodes manifest data in the given format. JSON input may carry
// comments and trailing commas.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
			return nil, fmt.Errorf("invalid JSON manifest: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid YAML manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}

	if mode, err := model.ParseLoadMode(string(m.Mode)); err == nil {
		m.Mode = mode
	}
	return &m, nil
}

// Find searches dir for a manifest in the standard locations and returns the
// first that exists.
func Find(dir string) (string, error) {
	candidates := []string{
		filepath.Join(dir, "railyard.yaml"),
		filepath.Join(dir, "railyard.yml"),
		filepath.Join(dir, "railyard.json"),
		filepath.Join(dir, ".railyard", "manifest.yaml"),
		filepath.Join(dir, ".railyard", "manifest.json"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitManifestNotFound,
		fmt.Sprintf("manifest not found in %s (searched railyard.yaml, railyard.yml, railyard.json and .railyard/)", dir),
	)
}

// Options builds the loader knobs from the manifest.
func (m *Manifest) Options() loader.Options {
	return loader.Options{
		WagonCount:   m.Wagons,
		WeightLimit:  m.WeightLimit,
		PairingLimit: m.PairingLimit,
		Strict:       m.Strict,
	}
}

// BlockInput returns the block geometry and ordered category counts.
func (m *Manifest) BlockInput() (block.Block, []model.CategoryCount, error) {
	if m.Block == nil {
		return block.Block{}, nil, fmt.Errorf("manifest has no block section")
	}
	b := block.Block{
		StackHeight: m.Block.StackHeight,
		MaxBays:     m.Block.MaxBays,
		MaxRows:     m.Block.MaxRows,
	}
	categories := make([]model.CategoryCount, len(m.Block.Categories))
	copy(categories, m.Block.Categories)
	return b, categories, nil
}

// TwentyTiers builds fresh queues for the twenty-foot loader.
func (m *Manifest) TwentyTiers() (*loader.TwentyTiers, error) {
	if m.Twenty == nil {
		return nil, fmt.Errorf("manifest has no twenty section")
	}
	return &loader.TwentyTiers{
		Heavy:  m.deque(m.Twenty.Heavy),
		Medium: m.deque(m.Twenty.Medium),
		Light:  m.deque(m.Twenty.Light),
	}, nil
}

// FortyTiers builds fresh queues for the forty-foot loader.
func (m *Manifest) FortyTiers() (*loader.FortyTiers, error) {
	if m.Forty == nil {
		return nil, fmt.Errorf("manifest has no forty section")
	}
	return &loader.FortyTiers{
		FirstLower:  m.deque(m.Forty.FirstLower),
		FirstUpper:  m.deque(m.Forty.FirstUpper),
		SecondLower: m.deque(m.Forty.SecondLower),
		SecondUpper: m.deque(m.Forty.SecondUpper),
	}, nil
}

// MixedTiers builds fresh queues for the mixed loader.
func (m *Manifest) MixedTiers() (*loader.MixedTiers, error) {
	if m.Mixed == nil {
		return nil, fmt.Errorf("manifest has no mixed section")
	}
	return &loader.MixedTiers{
		Twenty:    m.deque(m.Mixed.Twenty),
		Singles:   m.deque(m.Mixed.Singles),
		PairLower: m.deque(m.Mixed.PairLower),
		PairUpper: m.deque(m.Mixed.PairUpper),
		Balancer:  m.deque(m.Mixed.Balancer),
	}, nil
}

func (m *Manifest) deque(weights []float64) *queue.Deque {
	if m.SortTiers {
		return queue.NewDescending(weights...)
	}
	return queue.New(weights...)
}
