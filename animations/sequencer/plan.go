package sequencer

import (
	"fmt"

	"rune-and-ruin/graphics/animations"
)

// DefaultRegistry returns the builders for the six placement presets.
func DefaultRegistry() Registry {
	return Registry{
		{Preset: animations.PresetOnToken, Build: buildOnToken},
		{Preset: animations.PresetMelee, Build: buildMelee},
		{Preset: animations.PresetRanged, Build: buildRanged},
		{Preset: animations.PresetTemplate, Build: buildTemplate},
		{Preset: animations.PresetSound, Build: buildSoundOnly},
		{Preset: animations.PresetMacro, Build: buildMacro},
	}
}

// BuildPlan translates one validated entry into the instruction sequence the
// playback engine consumes, using the default preset builders. A group with
// contents flattens into one plan, nested entries inheriting trigger,
// preset, file, predicate, and options from their parent unless they
// override them.
func BuildPlan(entry animations.AnimationObject) (Plan, error) {
	return DefaultRegistry().BuildPlan(entry)
}

// BuildPlan translates entry with this registry's builders.
func (r Registry) BuildPlan(entry animations.AnimationObject) (Plan, error) {
	index, err := r.Index()
	if err != nil {
		return nil, err
	}
	return buildPlan(index, entry)
}

func buildPlan(index map[animations.Preset]Definition, entry animations.AnimationObject) (Plan, error) {
	if len(entry.Contents) > 0 {
		var plan Plan
		for i, nested := range entry.Contents {
			sub, err := buildPlan(index, inherit(entry, nested))
			if err != nil {
				return nil, fmt.Errorf("contents[%d]: %w", i, err)
			}
			plan = append(plan, sub...)
		}
		return plan, nil
	}
	if entry.Reference != "" {
		return nil, fmt.Errorf("sequencer: entry references %q and must be resolved against a catalog first", entry.Reference)
	}
	preset := entry.Preset
	if preset == "" {
		preset = animations.PresetOnToken
	}
	def, ok := index[preset]
	if !ok {
		return nil, fmt.Errorf("sequencer: no builder for preset %q", preset)
	}
	return def.Build(entry)
}

// inherit fills the fields nested left unset from parent. Options transfer
// wholesale; merging individual option fields is the playback engine's
// business, not the planner's.
func inherit(parent, nested animations.AnimationObject) animations.AnimationObject {
	merged := nested
	if len(merged.Trigger) == 0 {
		merged.Trigger = parent.Trigger
	}
	if merged.Preset == "" {
		merged.Preset = parent.Preset
	}
	if len(merged.File) == 0 {
		merged.File = parent.File
	}
	if len(merged.Predicate) == 0 {
		merged.Predicate = parent.Predicate
	}
	if merged.Options == nil {
		merged.Options = parent.Options
	}
	return merged
}

// presetOptions digs the placement configuration out of an entry, tolerating
// entries that carry no options block at all.
func presetOptions(entry animations.AnimationObject) *animations.PresetOptions {
	if entry.Options == nil {
		return nil
	}
	return entry.Options.Preset
}

func buildOnToken(entry animations.AnimationObject) (Plan, error) {
	plan, err := openEffect(entry, animations.PresetOnToken)
	if err != nil {
		return nil, err
	}
	attach := animations.AttachOptions{}
	if p := presetOptions(entry); p != nil && p.AttachTo != nil {
		attach = *p.AttachTo
	}
	plan = append(plan, AttachTo{Options: attach})
	return finishEffect(plan, entry), nil
}

func buildMelee(entry animations.AnimationObject) (Plan, error) {
	plan, err := openEffect(entry, animations.PresetMelee)
	if err != nil {
		return nil, err
	}
	attach := animations.AttachOptions{}
	rotate := animations.RotateOptions{}
	if p := presetOptions(entry); p != nil {
		if p.AttachTo != nil {
			attach = *p.AttachTo
		}
		if p.RotateTowards != nil {
			rotate = *p.RotateTowards
		}
	}
	plan = append(plan, AttachTo{Options: attach}, RotateTowards{Options: rotate})
	return finishEffect(plan, entry), nil
}

func buildRanged(entry animations.AnimationObject) (Plan, error) {
	plan, err := openEffect(entry, animations.PresetRanged)
	if err != nil {
		return nil, err
	}
	stretch := animations.StretchOptions{}
	var rotate *animations.RotateOptions
	if p := presetOptions(entry); p != nil {
		if p.StretchTo != nil {
			stretch = *p.StretchTo
		}
		rotate = p.RotateTowards
	}
	plan = append(plan, StretchTo{Options: stretch})
	if rotate != nil {
		plan = append(plan, RotateTowards{Options: *rotate})
	}
	return finishEffect(plan, entry), nil
}

func buildTemplate(entry animations.AnimationObject) (Plan, error) {
	plan, err := openEffect(entry, animations.PresetTemplate)
	if err != nil {
		return nil, err
	}
	location := animations.LocationOptions{}
	if p := presetOptions(entry); p != nil && p.AtLocation != nil {
		location = *p.AtLocation
	}
	plan = append(plan, AtLocation{Options: location})
	return finishEffect(plan, entry), nil
}

// buildSoundOnly plans audio-only entries. The sound list wins when both it
// and the file field are present; a bare file field is treated as the audio
// asset.
func buildSoundOnly(entry animations.AnimationObject) (Plan, error) {
	if entry.Options != nil && len(entry.Options.Sound) > 0 {
		return soundOps(entry.Options.Sound), nil
	}
	if len(entry.File) == 0 {
		return nil, fmt.Errorf("sequencer: sound entry carries neither options.sound nor file")
	}
	var plan Plan
	for _, file := range entry.File {
		plan = append(plan, PlaySound{File: file})
	}
	return plan, nil
}

// buildMacro plans a macro invocation: the file names the macro document and
// no placement instruction follows.
func buildMacro(entry animations.AnimationObject) (Plan, error) {
	return openEffect(entry, animations.PresetMacro)
}

// openEffect emits the CreateEffect/SetFile pair every visual plan starts
// with.
func openEffect(entry animations.AnimationObject, preset animations.Preset) (Plan, error) {
	if len(entry.File) == 0 {
		return nil, fmt.Errorf("sequencer: %s entry has no file", preset)
	}
	create := CreateEffect{}
	if o := entry.Options; o != nil {
		create.ID = o.ID
		create.Name = o.Name
		create.SyncGroup = o.SyncGroup
	}
	if p := presetOptions(entry); p != nil {
		create.Locally = p.Locally
		create.Persistent = p.Persistent
	}
	return Plan{create, SetFile{Files: append([]string(nil), entry.File...)}}, nil
}

func finishEffect(plan Plan, entry animations.AnimationObject) Plan {
	o := entry.Options
	if o == nil {
		return plan
	}
	if o.FadeIn != nil || o.FadeOut != nil || o.Wait != nil || o.Delay != nil || o.Repeats != nil {
		plan = append(plan, SetTiming{
			FadeIn:  o.FadeIn,
			FadeOut: o.FadeOut,
			Wait:    o.Wait,
			Delay:   o.Delay,
			Repeats: o.Repeats,
		})
	}
	return append(plan, soundOps(o.Sound)...)
}

func soundOps(sounds animations.SoundList) Plan {
	var plan Plan
	for _, s := range sounds {
		plan = append(plan, PlaySound{
			File:     s.File,
			Volume:   s.Volume,
			Delay:    s.Delay,
			Duration: s.Duration,
			FadeIn:   s.FadeIn,
			FadeOut:  s.FadeOut,
		})
	}
	return plan
}
