package selection

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// ModifierKey names the keyboard modifier that must accompany a pointer
// press to start a drag.
type ModifierKey string

// Supported modifier keys. Any unrecognized value behaves like
// ModifierNone: every primary press starts a selection.
const (
	ModifierShift ModifierKey = "shift"
	ModifierCtrl  ModifierKey = "ctrl" // accepts either ctrl or the platform meta key
	ModifierAlt   ModifierKey = "alt"
	ModifierNone  ModifierKey = "none"
)

// Default option values, applied by withDefaults for zero-valued fields.
const (
	DefaultNodeSize       = 5.0 // hit radius for nodes without a size attribute
	DefaultSizeMultiplier = 2.0
	DefaultZIndex         = 1000
	DefaultBorderStyle    = "1px dashed #999"
	DefaultBackground     = "rgba(120, 120, 200, 0.1)"
)

// Options is the policy snapshot for a selection tool. It is merged over
// documented defaults at construction time and never mutated afterwards.
//
// The zero value gives the documented default behavior: shift modifier,
// intersection matching, size multiplier 2, hit-testing on release, broad
// phase enabled, no throttling.
type Options struct {
	// Modifier gates drag starts. Empty means ModifierShift; values other
	// than the defined constants behave like ModifierNone.
	Modifier ModifierKey

	// SelectOnlyComplete switches narrow-phase matching from intersection
	// to strict full containment: a node matches only if its entire hit
	// circle lies inside the rectangle.
	SelectOnlyComplete bool

	// NodeSizeMultiplier scales each node's size attribute into its hit
	// radius. Zero or negative means DefaultSizeMultiplier.
	NodeSizeMultiplier float64

	// LiveSelection runs hit-testing on every processed move instead of
	// deferring it to pointer release.
	LiveSelection bool

	// DisableBroadPhase turns off the bounding-box rejection pass. The
	// broad phase is a pure optimization; disabling it never changes the
	// result set, only the cost.
	DisableBroadPhase bool

	// Throttle is the minimum interval between processed move samples.
	// Samples arriving inside the window are dropped with zero side
	// effects. Zero disables throttling.
	Throttle time.Duration

	// Overlay styling. Cosmetic only, no behavioral effect.
	BorderStyle string
	Background  string
	ZIndex      int

	// Debug logs every phase transition, the computed rectangles in both
	// coordinate spaces, and per-node match decisions. Diagnostic only;
	// never alters selection results.
	Debug  bool
	Logger *log.Logger

	// Notification hooks. Each is optional; nil hooks are skipped.
	OnSelectionStart    func(StartEvent)
	OnSelectionChange   func(ChangeEvent)
	OnSelectionComplete func(CompleteEvent)
}

// withDefaults returns a copy of o with zero-valued fields replaced by the
// documented defaults. Idempotent.
func (o Options) withDefaults() Options {
	if o.Modifier == "" {
		o.Modifier = ModifierShift
	}
	if o.NodeSizeMultiplier <= 0 {
		o.NodeSizeMultiplier = DefaultSizeMultiplier
	}
	if o.BorderStyle == "" {
		o.BorderStyle = DefaultBorderStyle
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.ZIndex == 0 {
		o.ZIndex = DefaultZIndex
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// overlayStyle collects the cosmetic options for the overlay host.
func (o Options) overlayStyle() OverlayStyle {
	return OverlayStyle{
		BorderStyle: o.BorderStyle,
		Background:  o.Background,
		ZIndex:      o.ZIndex,
	}
}

// modifierSatisfied reports whether the pressed modifiers satisfy the
// configured gate. Unrecognized modifier names are treated permissively:
// any press starts a selection.
func modifierSatisfied(key ModifierKey, mods Modifiers) bool {
	switch key {
	case ModifierShift:
		return mods.Shift
	case ModifierCtrl:
		return mods.Ctrl || mods.Meta
	case ModifierAlt:
		return mods.Alt
	default:
		return true
	}
}

// tomlOptions is the on-disk shape of an options file. Durations are
// expressed in milliseconds to match the behavioral contract.
type tomlOptions struct {
	Modifier           string  `toml:"modifier"`
	SelectOnlyComplete bool    `toml:"select_only_complete"`
	NodeSizeMultiplier float64 `toml:"node_size_multiplier"`
	LiveSelection      bool    `toml:"live_selection"`
	DisableBroadPhase  bool    `toml:"disable_broad_phase"`
	ThrottleMS         int     `toml:"throttle_ms"`
	BorderStyle        string  `toml:"border_style"`
	Background         string  `toml:"background"`
	ZIndex             int     `toml:"z_index"`
	Debug              bool    `toml:"debug"`
}

// OptionsFromTOML reads a TOML options file. Fields absent from the file
// keep their zero value and therefore their documented default.
func OptionsFromTOML(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options file: %w", err)
	}
	return parseTOMLOptions(data)
}

func parseTOMLOptions(data []byte) (Options, error) {
	var raw tomlOptions
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Options{}, fmt.Errorf("parse options file: %w", err)
	}
	return Options{
		Modifier:           ModifierKey(raw.Modifier),
		SelectOnlyComplete: raw.SelectOnlyComplete,
		NodeSizeMultiplier: raw.NodeSizeMultiplier,
		LiveSelection:      raw.LiveSelection,
		DisableBroadPhase:  raw.DisableBroadPhase,
		Throttle:           time.Duration(raw.ThrottleMS) * time.Millisecond,
		BorderStyle:        raw.BorderStyle,
		Background:         raw.Background,
		ZIndex:             raw.ZIndex,
		Debug:              raw.Debug,
	}, nil
}
