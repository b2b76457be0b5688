package modal

// Position controls vertical alignment of a panel. Values outside the
// known set are passed through to the presentation layer untouched.
type Position string

const (
	PositionNone   Position = ""
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// OptionKey names one recognised option
type OptionKey string

const (
	OptionOverlay        OptionKey = "overlay"
	OptionPosition       OptionKey = "position"
	OptionCloseOnEscape  OptionKey = "closeOnEscape"
	OptionCloseOnOverlay OptionKey = "closeOnOverlay"
	OptionContainerClass OptionKey = "containerClass"
)

// AllOptionKeys returns the recognised option keys in declaration order
func AllOptionKeys() []OptionKey {
	return []OptionKey{
		OptionOverlay,
		OptionPosition,
		OptionCloseOnEscape,
		OptionCloseOnOverlay,
		OptionContainerClass,
	}
}

// Options is the resolved configuration of a panel
type Options struct {
	Overlay        bool     `json:"overlay" yaml:"overlay"`
	Position       Position `json:"position,omitempty" yaml:"position,omitempty"`
	CloseOnEscape  bool     `json:"closeOnEscape" yaml:"closeOnEscape"`
	CloseOnOverlay bool     `json:"closeOnOverlay" yaml:"closeOnOverlay"`
	ContainerClass string   `json:"containerClass,omitempty" yaml:"containerClass,omitempty"`
}

// DefaultOptions returns the options every panel starts from
func DefaultOptions() Options {
	return Options{
		Overlay:        true,
		Position:       PositionNone,
		CloseOnEscape:  true,
		CloseOnOverlay: true,
	}
}

// Overrides is a partial Options. Nil fields leave the underlying value alone.
type Overrides struct {
	Overlay        *bool     `json:"overlay,omitempty" yaml:"overlay,omitempty"`
	Position       *Position `json:"position,omitempty" yaml:"position,omitempty"`
	CloseOnEscape  *bool     `json:"closeOnEscape,omitempty" yaml:"closeOnEscape,omitempty"`
	CloseOnOverlay *bool     `json:"closeOnOverlay,omitempty" yaml:"closeOnOverlay,omitempty"`
	ContainerClass *string   `json:"containerClass,omitempty" yaml:"containerClass,omitempty"`
}

// Merge returns a copy of opts with every set field of ov applied
func (opts Options) Merge(ov Overrides) Options {
	if ov.Overlay != nil {
		opts.Overlay = *ov.Overlay
	}
	if ov.Position != nil {
		opts.Position = *ov.Position
	}
	if ov.CloseOnEscape != nil {
		opts.CloseOnEscape = *ov.CloseOnEscape
	}
	if ov.CloseOnOverlay != nil {
		opts.CloseOnOverlay = *ov.CloseOnOverlay
	}
	if ov.ContainerClass != nil {
		opts.ContainerClass = *ov.ContainerClass
	}
	return opts
}

// ResolveOptions layers defaults, declarative metadata and caller overrides,
// later layers winning
func ResolveOptions(metadata, overrides Overrides) Options {
	return DefaultOptions().Merge(metadata).Merge(overrides)
}

// Get reads one option by key
func (opts Options) Get(key OptionKey) (any, bool) {
	switch key {
	case OptionOverlay:
		return opts.Overlay, true
	case OptionPosition:
		return opts.Position, true
	case OptionCloseOnEscape:
		return opts.CloseOnEscape, true
	case OptionCloseOnOverlay:
		return opts.CloseOnOverlay, true
	case OptionContainerClass:
		return opts.ContainerClass, true
	}
	return nil, false
}

// OverrideFor builds a single-field Overrides from a loosely typed value.
// Position accepts either a Position or a plain string.
func OverrideFor(key OptionKey, value any) (Overrides, error) {
	var ov Overrides
	switch key {
	case OptionOverlay, OptionCloseOnEscape, OptionCloseOnOverlay:
		b, ok := value.(bool)
		if !ok {
			return ov, &OptionError{Key: key, Value: value, Want: "bool"}
		}
		switch key {
		case OptionOverlay:
			ov.Overlay = &b
		case OptionCloseOnEscape:
			ov.CloseOnEscape = &b
		default:
			ov.CloseOnOverlay = &b
		}
	case OptionPosition:
		var p Position
		switch v := value.(type) {
		case Position:
			p = v
		case string:
			p = Position(v)
		default:
			return ov, &OptionError{Key: key, Value: value, Want: "string"}
		}
		ov.Position = &p
	case OptionContainerClass:
		s, ok := value.(string)
		if !ok {
			return ov, &OptionError{Key: key, Value: value, Want: "string"}
		}
		ov.ContainerClass = &s
	default:
		return ov, &OptionError{Key: key, Value: value}
	}
	return ov, nil
}

// Bool returns a pointer to b, for building Overrides literals
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building Overrides literals
func String(s string) *string { return &s }

// At returns a pointer to p, for building Overrides literals
func At(p Position) *Position { return &p }
