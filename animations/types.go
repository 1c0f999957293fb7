package animations

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Trigger identifies a game event an animation entry responds to.
type Trigger string

// Triggers accepted by the grammar.
const (
	TriggerAttackRoll    Trigger = "attack-roll"
	TriggerDamageRoll    Trigger = "damage-roll"
	TriggerSpellCast     Trigger = "spell-cast"
	TriggerDamageTaken   Trigger = "damage-taken"
	TriggerSavingThrow   Trigger = "saving-throw"
	TriggerSkillCheck    Trigger = "skill-check"
	TriggerFlatCheck     Trigger = "flat-check"
	TriggerInitiative    Trigger = "initiative"
	TriggerStartTurn     Trigger = "start-turn"
	TriggerEndTurn       Trigger = "end-turn"
	TriggerPlaceTemplate Trigger = "place-template"
	TriggerAction        Trigger = "action"
	TriggerSelfEffect    Trigger = "self-effect"
	TriggerToggle        Trigger = "toggle"
	TriggerEffect        Trigger = "effect"
	TriggerCondition     Trigger = "condition"
)

// Preset identifies the placement strategy for an effect.
type Preset string

// Presets accepted by the grammar.
const (
	PresetOnToken  Preset = "onToken"
	PresetRanged   Preset = "ranged"
	PresetMelee    Preset = "melee"
	PresetTemplate Preset = "template"
	PresetSound    Preset = "sound"
	PresetMacro    Preset = "macro"
)

// TriggerList accepts a single trigger or an array of triggers on the wire
// and always holds the array form.
type TriggerList []Trigger

func (t *TriggerList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []Trigger
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*t = many
		return nil
	}
	var one Trigger
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*t = TriggerList{one}
	return nil
}

// FileList accepts a single file reference or an array of references on the
// wire and always holds the array form.
type FileList []string

func (f *FileList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []string
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*f = many
		return nil
	}
	var one string
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*f = FileList{one}
	return nil
}

// Predicate is one node of the predicate mini-language in normalized form:
// exactly one of Option, Compare, or Op with Args is populated.
type Predicate struct {
	// Option is the bare roll option form.
	Option string
	// Op is the keyword of a composite form: a comparison, a combinator,
	// not, or if.
	Op string
	// Compare carries the operands when Op is eq, gt, gte, lt, or lte.
	Compare *Comparison
	// Args holds sub-predicates: all members for combinators, one for not,
	// condition then consequence for if.
	Args []Predicate
}

// Comparison pairs a roll option with the value it is compared against.
type Comparison struct {
	Option string
	Value  ComparisonValue
}

// ComparisonValue is the right-hand side of a comparison: a roll option or a
// number.
type ComparisonValue struct {
	Option   string
	Number   float64
	IsNumber bool
}

func (v *ComparisonValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &v.Option)
	}
	v.IsNumber = true
	return json.Unmarshal(trimmed, &v.Number)
}

func (p *Predicate) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty predicate")
	}
	if trimmed[0] == '"' {
		var option string
		if err := json.Unmarshal(trimmed, &option); err != nil {
			return err
		}
		*p = Predicate{Option: option}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	// The if form pairs two keys; every other form carries exactly one.
	if condRaw, isIf := raw["if"]; isIf {
		thenRaw, hasThen := raw["then"]
		if !hasThen {
			return fmt.Errorf("if predicate missing then")
		}
		var cond, then Predicate
		if err := json.Unmarshal(condRaw, &cond); err != nil {
			return err
		}
		if err := json.Unmarshal(thenRaw, &then); err != nil {
			return err
		}
		*p = Predicate{Op: "if", Args: []Predicate{cond, then}}
		return nil
	}
	if len(raw) != 1 {
		return fmt.Errorf("predicate object must carry exactly one key, found %d", len(raw))
	}
	var op string
	var payload json.RawMessage
	for key, value := range raw {
		op, payload = key, value
	}
	switch op {
	case "eq", "gt", "gte", "lt", "lte":
		var pair []json.RawMessage
		if err := json.Unmarshal(payload, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("%s comparison needs exactly 2 elements, found %d", op, len(pair))
		}
		cmp := &Comparison{}
		if err := json.Unmarshal(pair[0], &cmp.Option); err != nil {
			return err
		}
		if err := json.Unmarshal(pair[1], &cmp.Value); err != nil {
			return err
		}
		*p = Predicate{Op: op, Compare: cmp}
	case "and", "or", "xor", "nand", "nor", "iff":
		var args []Predicate
		if err := json.Unmarshal(payload, &args); err != nil {
			return err
		}
		*p = Predicate{Op: op, Args: args}
	case "not":
		var arg Predicate
		if err := json.Unmarshal(payload, &arg); err != nil {
			return err
		}
		*p = Predicate{Op: "not", Args: []Predicate{arg}}
	default:
		return fmt.Errorf("unknown predicate key %q", op)
	}
	return nil
}

// TimingSpec normalizes the scalar-or-object fade forms; a bare duration
// becomes {Value: n}.
type TimingSpec struct {
	Value float64 `json:"value"`
	Ease  string  `json:"ease,omitempty"`
	Delay float64 `json:"delay,omitempty"`
}

func (t *TimingSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type rawTiming TimingSpec
		var alias rawTiming
		if err := json.Unmarshal(trimmed, &alias); err != nil {
			return err
		}
		*t = TimingSpec(alias)
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*t = TimingSpec{Value: value}
	return nil
}

// RangeSpec normalizes a number-or-range union; Ranged reports whether the
// document spelled the {min, max} form.
type RangeSpec struct {
	Value  float64
	Min    float64
	Max    float64
	Ranged bool
}

func (r *RangeSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var object struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		}
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return err
		}
		*r = RangeSpec{Min: object.Min, Max: object.Max, Ranged: true}
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*r = RangeSpec{Value: value}
	return nil
}

// RepeatSpec normalizes the repeats union; a bare count becomes {Count: n}.
type RepeatSpec struct {
	Count    int     `json:"count"`
	DelayMin float64 `json:"delayMin,omitempty"`
	DelayMax float64 `json:"delayMax,omitempty"`
}

func (r *RepeatSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type rawRepeat RepeatSpec
		var alias rawRepeat
		if err := json.Unmarshal(trimmed, &alias); err != nil {
			return err
		}
		*r = RepeatSpec(alias)
		return nil
	}
	var count int
	if err := json.Unmarshal(trimmed, &count); err != nil {
		return err
	}
	*r = RepeatSpec{Count: count}
	return nil
}

// ScaleToObjectSpec normalizes the scaleToObject union; a bare factor becomes
// {Value: n}.
type ScaleToObjectSpec struct {
	Value              float64 `json:"value"`
	Uniform            bool    `json:"uniform,omitempty"`
	ConsiderTokenScale bool    `json:"considerTokenScale,omitempty"`
}

func (s *ScaleToObjectSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type rawScale ScaleToObjectSpec
		var alias rawScale
		if err := json.Unmarshal(trimmed, &alias); err != nil {
			return err
		}
		*s = ScaleToObjectSpec(alias)
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*s = ScaleToObjectSpec{Value: value}
	return nil
}

// OffsetDim is one offset axis: a fixed distance or a [from, to] random
// range.
type OffsetDim struct {
	Value  float64
	From   float64
	To     float64
	Ranged bool
}

func (d *OffsetDim) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var bounds [2]float64
		if err := json.Unmarshal(trimmed, &bounds); err != nil {
			return err
		}
		*d = OffsetDim{From: bounds[0], To: bounds[1], Ranged: true}
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*d = OffsetDim{Value: value}
	return nil
}

// Offset is a positional offset with optional per-axis randomization.
type Offset struct {
	X     *OffsetDim `json:"x,omitempty"`
	Y     *OffsetDim `json:"y,omitempty"`
	FlipX bool       `json:"flipX,omitempty"`
	FlipY bool       `json:"flipY,omitempty"`
}

// SoundSpec is one sound with playback controls; a bare file reference
// becomes {File: ref}.
type SoundSpec struct {
	File      string      `json:"file"`
	Volume    float64     `json:"volume,omitempty"`
	Duration  float64     `json:"duration,omitempty"`
	FadeIn    float64     `json:"fadeIn,omitempty"`
	FadeOut   float64     `json:"fadeOut,omitempty"`
	Delay     float64     `json:"delay,omitempty"`
	Predicate []Predicate `json:"predicate,omitempty"`
}

func (s *SoundSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type rawSound SoundSpec
		var alias rawSound
		if err := json.Unmarshal(trimmed, &alias); err != nil {
			return err
		}
		*s = SoundSpec(alias)
		return nil
	}
	var file string
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return err
	}
	*s = SoundSpec{File: file}
	return nil
}

// SoundList accepts one sound or an array of sounds on the wire and always
// holds the array form.
type SoundList []SoundSpec

func (l *SoundList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []SoundSpec
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one SoundSpec
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*l = SoundList{one}
	return nil
}

// ColorMatrixOptions adjusts hue, brightness, contrast, and saturation.
type ColorMatrixOptions struct {
	Hue        float64 `json:"hue,omitempty"`
	Brightness float64 `json:"brightness,omitempty"`
	Contrast   float64 `json:"contrast,omitempty"`
	Saturate   float64 `json:"saturate,omitempty"`
}

// GlowOptions configures an outline glow.
type GlowOptions struct {
	Distance      float64 `json:"distance,omitempty"`
	OuterStrength float64 `json:"outerStrength,omitempty"`
	InnerStrength float64 `json:"innerStrength,omitempty"`
	Color         string  `json:"color,omitempty"`
	Quality       float64 `json:"quality,omitempty"`
	Knockout      bool    `json:"knockout,omitempty"`
}

// BlurOptions configures a blur; Blur excludes BlurX and BlurY.
type BlurOptions struct {
	Strength   float64 `json:"strength,omitempty"`
	Blur       float64 `json:"blur,omitempty"`
	BlurX      float64 `json:"blurX,omitempty"`
	BlurY      float64 `json:"blurY,omitempty"`
	Quality    int     `json:"quality,omitempty"`
	Resolution float64 `json:"resolution,omitempty"`
}

// NoiseOptions configures sprite noise.
type NoiseOptions struct {
	Noise float64 `json:"noise,omitempty"`
	Seed  float64 `json:"seed,omitempty"`
}

// Filter is the decoded visual filter; exactly the option struct matching
// Type is populated.
type Filter struct {
	Type        string
	ColorMatrix *ColorMatrixOptions
	Glow        *GlowOptions
	Blur        *BlurOptions
	Noise       *NoiseOptions
}

func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    string          `json:"type"`
		Options json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Filter{Type: raw.Type}
	if len(raw.Options) == 0 {
		return nil
	}
	switch raw.Type {
	case FilterColorMatrix:
		f.ColorMatrix = &ColorMatrixOptions{}
		return json.Unmarshal(raw.Options, f.ColorMatrix)
	case FilterGlow:
		f.Glow = &GlowOptions{}
		return json.Unmarshal(raw.Options, f.Glow)
	case FilterBlur:
		f.Blur = &BlurOptions{}
		return json.Unmarshal(raw.Options, f.Blur)
	case FilterNoise:
		f.Noise = &NoiseOptions{}
		return json.Unmarshal(raw.Options, f.Noise)
	case FilterClip:
		return nil
	default:
		return fmt.Errorf("unknown filter type %q", raw.Type)
	}
}

// Shape is the decoded template shape with per-kind dimensions flattened.
type Shape struct {
	Type      string       `json:"type"`
	Radius    float64      `json:"radius,omitempty"`
	Width     float64      `json:"width,omitempty"`
	Height    float64      `json:"height,omitempty"`
	Points    [][2]float64 `json:"points,omitempty"`
	Name      string       `json:"name,omitempty"`
	FillColor string       `json:"fillColor,omitempty"`
	FillAlpha float64      `json:"fillAlpha,omitempty"`
	LineSize  float64      `json:"lineSize,omitempty"`
	LineColor string       `json:"lineColor,omitempty"`
	Offset    *Offset      `json:"offset,omitempty"`
	GridUnits bool         `json:"gridUnits,omitempty"`
	IsMask    bool         `json:"isMask,omitempty"`
}

// ShapeList accepts one shape or an array of shapes on the wire and always
// holds the array form.
type ShapeList []Shape

func (l *ShapeList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []Shape
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one Shape
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*l = ShapeList{one}
	return nil
}

// PropertyAnimationOptions drives one animated property.
type PropertyAnimationOptions struct {
	Duration  float64 `json:"duration"`
	From      float64 `json:"from,omitempty"`
	To        float64 `json:"to,omitempty"`
	Delay     float64 `json:"delay,omitempty"`
	Ease      string  `json:"ease,omitempty"`
	GridUnits bool    `json:"gridUnits,omitempty"`
	Loops     int     `json:"loops,omitempty"`
}

// PropertyAnimation animates one property of a sprite or filter.
type PropertyAnimation struct {
	Target   string                   `json:"target"`
	Property string                   `json:"property"`
	Options  PropertyAnimationOptions `json:"options"`
}

// AttachOptions attaches the effect to the triggering token.
type AttachOptions struct {
	Align          string  `json:"align,omitempty"`
	Edge           string  `json:"edge,omitempty"`
	BindVisibility bool    `json:"bindVisibility,omitempty"`
	BindAlpha      bool    `json:"bindAlpha,omitempty"`
	FollowRotation bool    `json:"followRotation,omitempty"`
	RandomOffset   float64 `json:"randomOffset,omitempty"`
	Offset         *Offset `json:"offset,omitempty"`
}

// LocationOptions plays the effect at a fixed location.
type LocationOptions struct {
	CacheLocation bool    `json:"cacheLocation,omitempty"`
	Offset        *Offset `json:"offset,omitempty"`
	RandomOffset  float64 `json:"randomOffset,omitempty"`
	GridUnits     bool    `json:"gridUnits,omitempty"`
}

// RotateOptions rotates the effect to face its target.
type RotateOptions struct {
	RotationOffset float64 `json:"rotationOffset,omitempty"`
	CacheLocation  bool    `json:"cacheLocation,omitempty"`
	AttachTo       bool    `json:"attachTo,omitempty"`
	Offset         *Offset `json:"offset,omitempty"`
}

// StretchOptions stretches the effect between source and target.
type StretchOptions struct {
	AttachTo bool    `json:"attachTo,omitempty"`
	OnlyX    bool    `json:"onlyX,omitempty"`
	Tiling   bool    `json:"tiling,omitempty"`
	Offset   *Offset `json:"offset,omitempty"`
}

// BounceOptions configures the ricochet played on missed ranged attacks.
type BounceOptions struct {
	File  string    `json:"file"`
	Sound SoundList `json:"sound,omitempty"`
}

// PresetOptions selects and configures the placement strategy.
type PresetOptions struct {
	AttachTo      *AttachOptions   `json:"attachTo,omitempty"`
	AtLocation    *LocationOptions `json:"atLocation,omitempty"`
	RotateTowards *RotateOptions   `json:"rotateTowards,omitempty"`
	StretchTo     *StretchOptions  `json:"stretchTo,omitempty"`
	Bounce        *BounceOptions   `json:"bounce,omitempty"`
	Locally       bool             `json:"locally,omitempty"`
	Persistent    bool             `json:"persistent,omitempty"`
}

// EffectOptions carries the validated playback configuration for one effect
// instance.
type EffectOptions struct {
	Sound           SoundList           `json:"sound,omitempty"`
	Preset          *PresetOptions      `json:"preset,omitempty"`
	ID              string              `json:"id,omitempty"`
	Name            string              `json:"name,omitempty"`
	SyncGroup       string              `json:"syncGroup,omitempty"`
	Rotate          float64             `json:"rotate,omitempty"`
	RandomRotation  bool                `json:"randomRotation,omitempty"`
	Scale           *RangeSpec          `json:"scale,omitempty"`
	ScaleToObject   *ScaleToObjectSpec  `json:"scaleToObject,omitempty"`
	SpriteOffset    *Offset             `json:"spriteOffset,omitempty"`
	MirrorX         bool                `json:"mirrorX,omitempty"`
	MirrorY         bool                `json:"mirrorY,omitempty"`
	FadeIn          *TimingSpec         `json:"fadeIn,omitempty"`
	FadeOut         *TimingSpec         `json:"fadeOut,omitempty"`
	Wait            *RangeSpec          `json:"wait,omitempty"`
	Delay           *RangeSpec          `json:"delay,omitempty"`
	Repeats         *RepeatSpec         `json:"repeats,omitempty"`
	Opacity         float64             `json:"opacity,omitempty"`
	Tint            string              `json:"tint,omitempty"`
	Filter          *Filter             `json:"filter,omitempty"`
	AnimateProperty []PropertyAnimation `json:"animateProperty,omitempty"`
	LoopProperty    []PropertyAnimation `json:"loopProperty,omitempty"`
	Shape           ShapeList           `json:"shape,omitempty"`
}

// AnimationObject is one validated animation entry. Nested contents inherit
// unspecified fields from their parent at playback time.
type AnimationObject struct {
	Trigger   TriggerList       `json:"trigger,omitempty"`
	Preset    Preset            `json:"preset,omitempty"`
	File      FileList          `json:"file,omitempty"`
	Predicate []Predicate       `json:"predicate,omitempty"`
	Options   *EffectOptions    `json:"options,omitempty"`
	Overrides []string          `json:"overrides,omitempty"`
	Default   bool              `json:"default,omitempty"`
	Reference string            `json:"reference,omitempty"`
	Contents  []AnimationObject `json:"contents,omitempty"`
}

// TokenImage describes the image swap rules for one document.
type TokenImage struct {
	Name     string           `json:"name"`
	Requires string           `json:"requires,omitempty"`
	UUID     string           `json:"uuid"`
	Rules    []TokenImageRule `json:"rules"`
}

// TokenImageRule is one swap rule, decoded from either the compact tuple
// form or the object form.
type TokenImageRule struct {
	Option    string
	Predicate []Predicate
	Img       string
	Scale     float64
	Tint      string
	Alpha     float64
}

func (r *TokenImageRule) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tuple []json.RawMessage
		if err := json.Unmarshal(trimmed, &tuple); err != nil {
			return err
		}
		if len(tuple) < 2 || len(tuple) > 3 {
			return fmt.Errorf("token image rule needs 2 or 3 elements, found %d", len(tuple))
		}
		out := TokenImageRule{}
		if err := json.Unmarshal(tuple[0], &out.Option); err != nil {
			return err
		}
		if err := json.Unmarshal(tuple[1], &out.Img); err != nil {
			return err
		}
		if len(tuple) == 3 {
			if err := json.Unmarshal(tuple[2], &out.Scale); err != nil {
				return err
			}
		}
		*r = out
		return nil
	}
	var object struct {
		Predicate []Predicate `json:"predicate"`
		Img       string      `json:"img"`
		Scale     float64     `json:"scale"`
		Tint      string      `json:"tint"`
		Alpha     float64     `json:"alpha"`
	}
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return err
	}
	*r = TokenImageRule{
		Predicate: object.Predicate,
		Img:       object.Img,
		Scale:     object.Scale,
		Tint:      object.Tint,
		Alpha:     object.Alpha,
	}
	return nil
}

// Document is the decoded form of a validated animations file.
type Document struct {
	Aliases     map[string]string
	Entries     map[string][]AnimationObject
	TokenImages []TokenImage
}

// DecodeDocument decodes data into the typed model handed to the playback
// engine. It assumes the document already passed Validate; malformed input
// fails with a plain error rather than an issue list.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("animations: empty document")
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return nil, fmt.Errorf("animations: decode document: %w", err)
	}
	doc := &Document{
		Aliases: make(map[string]string),
		Entries: make(map[string][]AnimationObject),
	}
	for key, raw := range root {
		value := bytes.TrimSpace(raw)
		if key == tokenImagesKey {
			if err := json.Unmarshal(value, &doc.TokenImages); err != nil {
				return nil, fmt.Errorf("animations: decode %s: %w", tokenImagesKey, err)
			}
			continue
		}
		if len(value) > 0 && value[0] == '"' {
			var alias string
			if err := json.Unmarshal(value, &alias); err != nil {
				return nil, fmt.Errorf("animations: decode alias %q: %w", key, err)
			}
			doc.Aliases[key] = alias
			continue
		}
		var entries []AnimationObject
		if err := json.Unmarshal(value, &entries); err != nil {
			return nil, fmt.Errorf("animations: decode entries %q: %w", key, err)
		}
		doc.Entries[key] = entries
	}
	return doc, nil
}
