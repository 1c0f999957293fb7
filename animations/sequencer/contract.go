// Package sequencer defines the instruction contract between validated
// animation entries and the playback engine, and translates entries into
// instruction plans. The contract covers placement, timing, and audio; the
// purely visual dressing in EffectOptions (scale, tint, filters, shapes)
// rides along on the effect and never needs an instruction of its own.
package sequencer

import (
	"errors"
	"fmt"
	"strings"

	"rune-and-ruin/graphics/animations"
)

// Op is implemented by every playback instruction. Implementations embed
// PlaybackOp to satisfy the interface.
type Op interface {
	opMarker()
}

// PlaybackOp is embedded into instruction structs to mark them as plan ops.
type PlaybackOp struct{}

func (PlaybackOp) opMarker() {}

// Plan is the ordered instruction sequence built from one animation entry.
type Plan []Op

// Sequencer consumes plans. The playback engine implements it; tests use a
// recorder.
type Sequencer interface {
	Play(plan Plan) error
}

// CreateEffect opens a new effect in the sequence.
type CreateEffect struct {
	PlaybackOp
	ID         string
	Name       string
	SyncGroup  string
	Locally    bool
	Persistent bool
}

// SetFile points the open effect at its asset or assets.
type SetFile struct {
	PlaybackOp
	Files []string
}

// AttachTo pins the effect to the acting token.
type AttachTo struct {
	PlaybackOp
	Options animations.AttachOptions
}

// StretchTo stretches the effect from the acting token to its target.
type StretchTo struct {
	PlaybackOp
	Options animations.StretchOptions
}

// AtLocation plays the effect at a fixed point, the template centre by
// default.
type AtLocation struct {
	PlaybackOp
	Options animations.LocationOptions
}

// RotateTowards rotates the effect to face its target.
type RotateTowards struct {
	PlaybackOp
	Options animations.RotateOptions
}

// PlaySound schedules one audio asset.
type PlaySound struct {
	PlaybackOp
	File     string
	Volume   float64
	Delay    float64
	Duration float64
	FadeIn   float64
	FadeOut  float64
}

// SetTiming applies fades, waits, and repetition to the open effect.
type SetTiming struct {
	PlaybackOp
	FadeIn  *animations.TimingSpec
	FadeOut *animations.TimingSpec
	Wait    *animations.RangeSpec
	Delay   *animations.RangeSpec
	Repeats *animations.RepeatSpec
}

var (
	errEmptyPreset = errors.New("definition preset must not be empty")
	errNilBuilder  = errors.New("definition builder must not be nil")
)

// Builder translates one leaf entry into the ops for its placement strategy.
type Builder func(entry animations.AnimationObject) (Plan, error)

// Definition binds a placement preset to its plan builder.
type Definition struct {
	Preset animations.Preset
	Build  Builder
}

// Registry is a collection of preset builders. Callers should Validate
// before use.
type Registry []Definition

// Validate ensures the registry carries unique, non-empty presets with
// builders attached.
func (r Registry) Validate() error {
	seen := make(map[animations.Preset]struct{}, len(r))
	for _, def := range r {
		if strings.TrimSpace(string(def.Preset)) == "" {
			return fmt.Errorf("sequencer: %w", errEmptyPreset)
		}
		if def.Build == nil {
			return fmt.Errorf("sequencer: preset %q: %w", def.Preset, errNilBuilder)
		}
		if _, exists := seen[def.Preset]; exists {
			return fmt.Errorf("sequencer: duplicate preset %q", def.Preset)
		}
		seen[def.Preset] = struct{}{}
	}
	return nil
}

// Index materialises a lookup map from the registry after validation.
func (r Registry) Index() (map[animations.Preset]Definition, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := make(map[animations.Preset]Definition, len(r))
	for _, def := range r {
		out[def.Preset] = def
	}
	return out, nil
}

// MustIndex materialises the registry and panics if validation fails. Useful
// for tests.
func (r Registry) MustIndex() map[animations.Preset]Definition {
	index, err := r.Index()
	if err != nil {
		panic(err)
	}
	return index
}
