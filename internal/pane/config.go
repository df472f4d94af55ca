package pane

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/widget"
)

// BuiltinSource is the ConfigError source used for the embedded layout.
const BuiltinSource = "<builtin>"

//go:embed example.json
var exampleLayout []byte

// NodeKind tags the variant of a Config node.
type NodeKind string

const (
	KindLeaf  NodeKind = "Leaf"
	KindSplit NodeKind = "Split"
)

// Direction is the orientation of a split's divider. V places the children
// side by side (the split runs along x); H stacks them (along y).
type Direction string

const (
	Horizontal Direction = "H"
	Vertical   Direction = "V"
)

// Config is the persisted layout tree. Leaves set PaneType and Corners;
// splits set Direction, Bias, A and B.
type Config struct {
	Kind      NodeKind
	PaneType  widget.Kind
	Corners   [4]geom.CornerStyle
	Direction Direction
	Bias      float64
	A         *Config
	B         *Config
}

// Leaf returns a leaf config.
func Leaf(kind widget.Kind, corners [4]geom.CornerStyle) *Config {
	return &Config{Kind: KindLeaf, PaneType: kind, Corners: corners}
}

// Split returns a split config.
func Split(dir Direction, bias float64, a, b *Config) *Config {
	return &Config{Kind: KindSplit, Direction: dir, Bias: bias, A: a, B: b}
}

type leafWire struct {
	Kind     NodeKind            `json:"kind"`
	PaneType widget.Kind         `json:"pane_type"`
	Corners  [4]geom.CornerStyle `json:"corners"`
}

type splitWire struct {
	Kind      NodeKind  `json:"kind"`
	Direction Direction `json:"direction"`
	Bias      float64   `json:"bias"`
	A         *Config   `json:"a"`
	B         *Config   `json:"b"`
}

type configWire struct {
	Kind      NodeKind           `json:"kind"`
	PaneType  *widget.Kind       `json:"pane_type"`
	Corners   []geom.CornerStyle `json:"corners"`
	Direction *Direction         `json:"direction"`
	Bias      *float64           `json:"bias"`
	A         *Config            `json:"a"`
	B         *Config            `json:"b"`
}

func (c Config) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindLeaf:
		return json.Marshal(leafWire{Kind: c.Kind, PaneType: c.PaneType, Corners: c.Corners})
	case KindSplit:
		return json.Marshal(splitWire{Kind: c.Kind, Direction: c.Direction, Bias: c.Bias, A: c.A, B: c.B})
	default:
		return nil, fmt.Errorf("invalid pane kind %q", c.Kind)
	}
}

// UnmarshalJSON decodes one node strictly: unknown keys, missing fields and
// fields of the other variant are errors.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w configWire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return err
	}

	switch w.Kind {
	case KindLeaf:
		if w.PaneType == nil || w.Corners == nil {
			return errors.New("leaf needs pane_type and corners")
		}
		if len(w.Corners) != 4 {
			return fmt.Errorf("corners must have 4 entries, got %d", len(w.Corners))
		}
		if w.Direction != nil || w.Bias != nil || w.A != nil || w.B != nil {
			return errors.New("leaf must not set direction, bias, a or b")
		}
		*c = Config{Kind: KindLeaf, PaneType: *w.PaneType}
		copy(c.Corners[:], w.Corners)
	case KindSplit:
		if w.Direction == nil || w.Bias == nil || w.A == nil || w.B == nil {
			return errors.New("split needs direction, bias, a and b")
		}
		if w.PaneType != nil || w.Corners != nil {
			return errors.New("split must not set pane_type or corners")
		}
		*c = Config{Kind: KindSplit, Direction: *w.Direction, Bias: *w.Bias, A: w.A, B: w.B}
	default:
		return fmt.Errorf("unknown pane kind %q (want Leaf or Split)", w.Kind)
	}
	return nil
}

// Validate checks the variant invariants of the whole tree.
func (c *Config) Validate() error {
	return c.validate("root")
}

func (c *Config) validate(path string) error {
	if c == nil {
		return &ConfigError{Path: path, Err: errors.New("missing pane")}
	}
	switch c.Kind {
	case KindLeaf:
		if c.A != nil || c.B != nil {
			return &ConfigError{Path: path, Err: errors.New("leaf must not have children")}
		}
		return nil
	case KindSplit:
		if c.Direction != Horizontal && c.Direction != Vertical {
			return &ConfigError{Path: path + ".direction", Err: fmt.Errorf("direction must be H or V, got %q", c.Direction)}
		}
		if math.IsNaN(c.Bias) || c.Bias < 0 || c.Bias > 1 {
			return &ConfigError{Path: path + ".bias", Err: fmt.Errorf("bias must be within [0,1], got %v", c.Bias)}
		}
		if err := c.A.validate(path + ".a"); err != nil {
			return err
		}
		return c.B.validate(path + ".b")
	default:
		return &ConfigError{Path: path + ".kind", Err: fmt.Errorf("unknown pane kind %q (want Leaf or Split)", c.Kind)}
	}
}

// Count returns the number of leaves and splits in the tree.
func (c *Config) Count() (leaves, splits int) {
	if c == nil {
		return 0, 0
	}
	if c.Kind == KindLeaf {
		return 1, 0
	}
	la, sa := c.A.Count()
	lb, sb := c.B.Count()
	return la + lb, sa + sb + 1
}

// Parse decodes and validates a layout document. source names the document
// in errors. Every failure is a *ConfigError.
func Parse(data []byte, source string) (*Config, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := validateSchema(doc); err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			cerr.Source = source
			return nil, cerr
		}
		return nil, &ConfigError{Source: source, Err: err}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Source: source, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			cerr.Source = source
		}
		return nil, err
	}
	return &cfg, nil
}

// Load reads a layout document from path. An empty path selects the
// built-in layout.
func Load(path string) (*Config, error) {
	if path == "" {
		return Example()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	return Parse(data, path)
}

// Example returns the built-in layout: info and process table on the left,
// four resource graphs on the right.
func Example() (*Config, error) {
	return Parse(exampleLayout, BuiltinSource)
}

// ExampleJSON returns the built-in layout document.
func ExampleJSON() []byte {
	return append([]byte(nil), exampleLayout...)
}
