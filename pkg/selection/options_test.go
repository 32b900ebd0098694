package selection

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	if o.Modifier != ModifierShift {
		t.Errorf("Modifier = %q, want shift", o.Modifier)
	}
	if o.NodeSizeMultiplier != DefaultSizeMultiplier {
		t.Errorf("NodeSizeMultiplier = %v, want %v", o.NodeSizeMultiplier, DefaultSizeMultiplier)
	}
	if o.ZIndex != DefaultZIndex {
		t.Errorf("ZIndex = %d, want %d", o.ZIndex, DefaultZIndex)
	}
	if o.BorderStyle != DefaultBorderStyle || o.Background != DefaultBackground {
		t.Errorf("styles = %q / %q", o.BorderStyle, o.Background)
	}
	if o.LiveSelection || o.SelectOnlyComplete || o.DisableBroadPhase {
		t.Error("zero value must mean on-release, intersection matching, broad phase on")
	}
	if o.Throttle != 0 {
		t.Errorf("Throttle = %v, want 0", o.Throttle)
	}
	if o.Logger == nil {
		t.Error("Logger should default to log.Default()")
	}
}

func TestWithDefaultsPreservesOverrides(t *testing.T) {
	o := Options{
		Modifier:           ModifierCtrl,
		NodeSizeMultiplier: 7,
		ZIndex:             5,
		LiveSelection:      true,
	}.withDefaults()

	if o.Modifier != ModifierCtrl || o.NodeSizeMultiplier != 7 || o.ZIndex != 5 || !o.LiveSelection {
		t.Errorf("overrides lost: %+v", o)
	}
}

func TestOptionsFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marquee.toml")
	content := `
modifier = "ctrl"
select_only_complete = true
node_size_multiplier = 3.5
live_selection = true
disable_broad_phase = true
throttle_ms = 80
border_style = "2px solid black"
z_index = 7
debug = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	o, err := OptionsFromTOML(path)
	if err != nil {
		t.Fatalf("OptionsFromTOML: %v", err)
	}

	if o.Modifier != ModifierCtrl {
		t.Errorf("Modifier = %q", o.Modifier)
	}
	if !o.SelectOnlyComplete || !o.LiveSelection || !o.DisableBroadPhase || !o.Debug {
		t.Errorf("bool fields not decoded: %+v", o)
	}
	if o.NodeSizeMultiplier != 3.5 {
		t.Errorf("NodeSizeMultiplier = %v", o.NodeSizeMultiplier)
	}
	if o.Throttle != 80*time.Millisecond {
		t.Errorf("Throttle = %v", o.Throttle)
	}
	if o.BorderStyle != "2px solid black" || o.ZIndex != 7 {
		t.Errorf("styling = %q / %d", o.BorderStyle, o.ZIndex)
	}
	// Background absent from the file keeps its default.
	if o.Background != "" {
		t.Errorf("Background = %q, want zero value before defaulting", o.Background)
	}
}

func TestOptionsFromTOMLErrors(t *testing.T) {
	if _, err := OptionsFromTOML(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("modifier = [broken"), 0644)
	if _, err := OptionsFromTOML(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestModifierSatisfied(t *testing.T) {
	if modifierSatisfied(ModifierShift, Modifiers{}) {
		t.Error("shift gate passed with no modifiers")
	}
	if !modifierSatisfied(ModifierCtrl, Modifiers{Meta: true}) {
		t.Error("ctrl gate must accept the platform meta key")
	}
	if !modifierSatisfied("", Modifiers{}) {
		t.Error("empty gate should behave permissively at this level")
	}
}
