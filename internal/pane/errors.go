package pane

import (
	"errors"
	"fmt"

	"github.com/1broseidon/raylock/internal/geom"
)

// ErrDegenerateOutline is returned when a leaf's corner set leaves no
// rectangle inside its border.
var ErrDegenerateOutline = errors.New("border outline has no inscribed rectangle")

// ConfigError reports a malformed layout document.
type ConfigError struct {
	Source string // file path, or "<builtin>"
	Path   string // dotted node path such as root.a.corners
	Err    error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Source != "" && e.Path != "":
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Path, e.Err)
	case e.Source != "":
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LayoutError reports a leaf whose geometry could not be resolved.
type LayoutError struct {
	Path    string
	Corners [4]geom.CornerStyle
	Outer   geom.Rect
	Err     error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: corners %s in %s: %v", e.Path, geom.FormatCorners(e.Corners), e.Outer, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }
