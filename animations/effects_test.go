package animations

import "testing"

func TestAnimationEntryMinimal(t *testing.T) {
	issues := checkNode(t, rules.entry, `{"trigger": "action", "file": "jb2a.impact.ground"}`)
	if len(issues) != 0 {
		t.Fatalf("expected minimal entry to pass, got %v", issues)
	}
}

func TestAnimationEntryFullOptions(t *testing.T) {
	issues := checkNode(t, rules.entry, `{
		"trigger": ["attack-roll", "spell-cast"],
		"preset": "ranged",
		"file": ["jb2a.arrow.fire", "assets/arrows/fire.webm"],
		"predicate": ["ranged-weapon", {"not": "self:blinded"}],
		"options": {
			"sound": [{"file": "audio/whoosh.ogg", "volume": 0.8}, "module.sounds.impact"],
			"preset": {"attachTo": {"align": "center", "bindVisibility": true}, "persistent": true},
			"id": "fire-arrow",
			"syncGroup": "volley",
			"rotate": 90,
			"scale": {"min": 0.8, "max": 1.2},
			"fadeIn": {"value": 250, "ease": "easeOutQuad"},
			"fadeOut": 500,
			"repeats": {"count": 3, "delayMin": 100, "delayMax": 250},
			"opacity": 0.9,
			"tint": "#ff4400",
			"filter": {"type": "Glow", "options": {"distance": 12, "color": "#ffaa00"}},
			"shape": {"type": "circle", "radius": 2.5, "gridUnits": true, "fillColor": "#220000", "fillAlpha": 0.4}
		}
	}`)
	if len(issues) != 0 {
		t.Fatalf("expected full entry to pass, got %v", issues)
	}
}

func TestAnimationEntryRecursiveContents(t *testing.T) {
	issues := checkNode(t, rules.entry, `{
		"trigger": "spell-cast",
		"contents": [
			{"file": "jb2a.cast.fire"},
			{"file": "jb2a.cast.smoke", "options": {"delay": 250}}
		]
	}`)
	if len(issues) != 0 {
		t.Fatalf("expected nested entry to pass, got %v", issues)
	}
}

func TestAnimationEntryDefects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want []wantIssue
	}{
		{
			name: "empty-entry",
			doc:  `{}`,
			want: []wantIssue{{code: IssueRefinement, path: "(document root)", msg: "must not be empty"}},
		},
		{
			name: "unknown-keys-sorted",
			doc:  `{"trigger": "action", "zeal": 1, "color": "#fff"}`,
			want: []wantIssue{{code: IssueUnrecognizedKeys, path: "(document root)", msg: `"color", "zeal"`}},
		},
		{
			name: "bad-trigger",
			doc:  `{"trigger": "on-hit"}`,
			want: []wantIssue{{code: IssueInvalidEnum, path: "trigger", msg: "is not a trigger"}},
		},
		{
			name: "duplicate-triggers",
			doc:  `{"trigger": ["action", "action"]}`,
			want: []wantIssue{{code: IssueRefinement, path: "trigger[1]", msg: "duplicates entry 0"}},
		},
		{
			name: "bad-preset",
			doc:  `{"preset": "thrown"}`,
			want: []wantIssue{{code: IssueInvalidEnum, path: "preset", msg: "is not a preset"}},
		},
		{
			name: "empty-options",
			doc:  `{"trigger": "action", "options": {}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options", msg: "must not be empty"}},
		},
		{
			name: "negative-fade",
			doc:  `{"options": {"fadeIn": -20}}`,
			want: []wantIssue{{code: IssueInvalidNumber, path: "options.fadeIn", msg: "must be at least 0"}},
		},
		{
			name: "fade-missing-value",
			doc:  `{"options": {"fadeIn": {"ease": "linear"}}}`,
			want: []wantIssue{{code: IssueInvalidType, path: "options.fadeIn.value", msg: "required key is missing"}},
		},
		{
			name: "bad-ease",
			doc:  `{"options": {"fadeOut": {"value": 100, "ease": "bouncy"}}}`,
			want: []wantIssue{{code: IssueInvalidEnum, path: "options.fadeOut.ease", msg: "is not an easing curve"}},
		},
		{
			name: "scale-range-inverted",
			doc:  `{"options": {"scale": {"min": 2, "max": 1}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.scale", msg: "max must be greater than min"}},
		},
		{
			name: "scale-zero",
			doc:  `{"options": {"scale": 0}}`,
			want: []wantIssue{{code: IssueInvalidNumber, path: "options.scale", msg: "must be greater than 0"}},
		},
		{
			name: "repeats-delay-inverted",
			doc:  `{"options": {"repeats": {"count": 2, "delayMin": 300, "delayMax": 200}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.repeats", msg: "delayMax must be greater than delayMin"}},
		},
		{
			name: "repeats-max-without-min",
			doc:  `{"options": {"repeats": {"count": 2, "delayMax": 200}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.repeats", msg: "delayMax requires delayMin"}},
		},
		{
			name: "fractional-repeats",
			doc:  `{"options": {"repeats": 2.5}}`,
			want: []wantIssue{{code: IssueInvalidNumber, path: "options.repeats", msg: "must be a whole number"}},
		},
		{
			name: "opacity-at-one",
			doc:  `{"options": {"opacity": 1}}`,
			want: []wantIssue{{code: IssueInvalidNumber, path: "options.opacity", msg: "must be less than 1"}},
		},
		{
			name: "bad-tint",
			doc:  `{"options": {"tint": "red"}}`,
			want: []wantIssue{{code: IssueInvalidString, path: "options.tint", msg: "is not a hex colour"}},
		},
		{
			name: "blur-axes-exclusive",
			doc:  `{"options": {"filter": {"type": "Blur", "options": {"blur": 4, "blurX": 2}}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.filter.options", msg: "blur must not be combined with blurX or blurY"}},
		},
		{
			name: "unknown-filter",
			doc:  `{"options": {"filter": {"type": "Sepia"}}}`,
			want: []wantIssue{{code: IssueInvalidEnum, path: "options.filter.type", msg: "is not a recognized type"}},
		},
		{
			name: "filter-missing-type",
			doc:  `{"options": {"filter": {"options": {"noise": 0.4}}}}`,
			want: []wantIssue{{code: IssueInvalidType, path: "options.filter.type", msg: "required key is missing"}},
		},
		{
			name: "circle-without-radius",
			doc:  `{"options": {"shape": {"type": "circle", "fillColor": "#fff"}}}`,
			want: []wantIssue{{code: IssueInvalidType, path: "options.shape.radius", msg: "required key is missing"}},
		},
		{
			name: "offset-zero-axis",
			doc:  `{"options": {"spriteOffset": {"x": 0}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.spriteOffset.x", msg: "must not be 0"}},
		},
		{
			name: "offset-no-axis",
			doc:  `{"options": {"spriteOffset": {"flipX": true}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.spriteOffset", msg: "must set at least one of x, y"}},
		},
		{
			name: "offset-degenerate-range",
			doc:  `{"options": {"spriteOffset": {"y": [5, 5]}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.spriteOffset.y", msg: "range bounds must be distinct"}},
		},
		{
			name: "wait-range-inverted",
			doc:  `{"options": {"wait": {"min": 10, "max": 10}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.wait", msg: "max must be greater than min"}},
		},
		{
			name: "empty-placement-strategy",
			doc:  `{"options": {"preset": {"atLocation": {}}}}`,
			want: []wantIssue{{code: IssueRefinement, path: "options.preset.atLocation", msg: "must not be empty"}},
		},
		{
			name: "bounce-missing-file",
			doc:  `{"options": {"preset": {"bounce": {"sound": "module.sounds.clang"}}}}`,
			want: []wantIssue{{code: IssueInvalidType, path: "options.preset.bounce.file", msg: "required key is missing"}},
		},
		{
			name: "sound-bad-volume",
			doc:  `{"options": {"sound": {"file": "audio/hit.ogg", "volume": 0}}}`,
			want: []wantIssue{{code: IssueInvalidNumber, path: "options.sound.volume", msg: "must be greater than 0"}},
		},
		{
			name: "property-animation-missing-duration",
			doc:  `{"options": {"loopProperty": [{"target": "sprite", "property": "rotation", "options": {"ease": "linear"}}]}}`,
			want: []wantIssue{{code: IssueInvalidType, path: "options.loopProperty[0].options.duration", msg: "required key is missing"}},
		},
		{
			name: "duplicate-contents",
			doc:  `{"contents": [{"file": "jb2a.cast.fire"}, {"file": "jb2a.cast.fire"}]}`,
			want: []wantIssue{{code: IssueRefinement, path: "contents[1]", msg: "duplicates entry 0"}},
		},
		{
			name: "default-flag-type",
			doc:  `{"default": "yes"}`,
			want: []wantIssue{{code: IssueInvalidType, path: "default", msg: "expected a boolean, received a string"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			matchIssues(t, checkNode(t, rules.entry, tc.doc), tc.want)
		})
	}
}

func TestAnimationEntryPropertyAnimations(t *testing.T) {
	issues := checkNode(t, rules.entry, `{
		"options": {
			"animateProperty": [
				{"target": "sprite", "property": "position.x", "options": {"duration": 500, "from": 0, "to": 10}}
			],
			"loopProperty": [
				{"target": "alphaFilter", "property": "alpha", "options": {"duration": 1000, "loops": 4, "ease": "easeInOutSine"}}
			]
		}
	}`)
	if len(issues) != 0 {
		t.Fatalf("expected property animations to pass, got %v", issues)
	}
}

func TestAnimationEntryReference(t *testing.T) {
	issues := checkNode(t, rules.entry, `{"reference": "strike", "overrides": ["strike:melee"]}`)
	if len(issues) != 0 {
		t.Fatalf("expected reference entry to pass, got %v", issues)
	}
}
