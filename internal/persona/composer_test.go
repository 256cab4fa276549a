package persona

import (
	"testing"

	"github.com/google/uuid"
	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/engine"
)

func testSet() *domain.AtomSet {
	return &domain.AtomSet{
		Atoms: []domain.Atom{
			{
				Kind: domain.AtomTrait,
				Key:  "caution",
				Rules: []engine.CompositionRule{
					{Description: "details", Expression: "trait.detail-focus * 0.5", Weight: 0.6},
					{Description: "perfectionism", Expression: "trait.perfectionism * 0.3", Weight: 0.4},
				},
			},
			{
				Kind: domain.AtomSkill,
				Key:  "code-review",
				Rules: []engine.CompositionRule{
					{Description: "caution helps", Expression: "trait.caution * 0.8", Weight: 1},
				},
			},
			{Kind: domain.AtomStack, Key: "postgres"},
		},
		Quirks: []domain.QuirkDef{
			{Key: "triple-checker", AnyOf: []string{"trait.caution > 30"}},
			{Key: "never-fires", AllOf: []string{"trait.caution > 99"}},
		},
		Phrases: []domain.PhraseDef{
			{Text: "Let me look once more.", AllOf: []string{"trait.caution > 30", "skill.code-review > 20"}},
			{Text: "Ship it.", AnyOf: []string{"trait.caution < 5"}},
		},
	}
}

func testPerson() *domain.Person {
	return &domain.Person{
		ID:   uuid.New(),
		Name: "marina",
		Anchors: map[string]float64{
			"trait.detail-focus":  80,
			"trait.perfectionism": 70,
		},
		Quirks: []string{"tea-drinker"},
	}
}

func TestCompose_Profile(t *testing.T) {
	composer := NewComposer(testSet(), nil)

	result, err := composer.Compose(testPerson(), engine.AnchorAddRuleDelta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := result.Profile

	// trait.caution = (80*0.5*0.6 + 70*0.3*0.4) / 1 = 32.4
	got := profile.Traits["caution"]
	if got < 32.39 || got > 32.41 {
		t.Errorf("trait.caution = %v, want ≈32.4", got)
	}

	// skill.code-review видит вычисленный trait.caution
	review := profile.Skills["code-review"]
	if review < 25.9 || review > 26 {
		t.Errorf("skill.code-review = %v, want ≈25.92", review)
	}

	// Anchors проходят в профиль
	if profile.Traits["detail-focus"] != 80 {
		t.Errorf("detail-focus = %v, want 80", profile.Traits["detail-focus"])
	}

	if result.Trace == nil || len(result.Trace.ComputationOrder) == 0 {
		t.Error("expected a non-empty computation trace")
	}
}

func TestCompose_QuirkAssignment(t *testing.T) {
	composer := NewComposer(testSet(), nil)

	result, err := composer.Compose(testPerson(), engine.AnchorAddRuleDelta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	quirks := map[string]bool{}
	for _, q := range result.Profile.Quirks {
		quirks[q] = true
	}

	if !quirks["tea-drinker"] {
		t.Error("explicit quirk should be kept")
	}
	if !quirks["triple-checker"] {
		t.Error("triple-checker should auto-assign (caution ≈32.4 > 30)")
	}
	if quirks["never-fires"] {
		t.Error("never-fires must not assign (caution < 99)")
	}
}

func TestCompose_PhraseMatching(t *testing.T) {
	composer := NewComposer(testSet(), nil)

	result, err := composer.Compose(testPerson(), engine.AnchorAddRuleDelta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	phrases := map[string]bool{}
	for _, p := range result.Profile.Phrases {
		phrases[p] = true
	}

	if !phrases["Let me look once more."] {
		t.Error("all_of phrase should match")
	}
	if phrases["Ship it."] {
		t.Error("any_of phrase must not match (caution > 5)")
	}
}

func TestCompose_AnchorReplacesPolicy(t *testing.T) {
	composer := NewComposer(testSet(), nil)

	person := testPerson()
	person.Anchors["trait.caution"] = 90

	result, err := composer.Compose(person, engine.AnchorReplaces)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Profile.Traits["caution"]; got != 90 {
		t.Errorf("anchored caution = %v, want 90 (replace policy)", got)
	}
}

func TestConditionsHold(t *testing.T) {
	ctx := engine.NewContext()
	ctx.Traits["caution"] = 60

	tests := []struct {
		name  string
		anyOf []string
		allOf []string
		want  bool
	}{
		{name: "any_of one true", anyOf: []string{"trait.caution > 90", "trait.caution > 50"}, want: true},
		{name: "any_of none true", anyOf: []string{"trait.caution > 90"}, want: false},
		{name: "all_of all true", allOf: []string{"trait.caution > 10", "trait.caution < 70"}, want: true},
		{name: "all_of one false", allOf: []string{"trait.caution > 10", "trait.caution > 70"}, want: false},
		{name: "both lists must hold", anyOf: []string{"1"}, allOf: []string{"0"}, want: false},
		{name: "no conditions at all", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conditionsHold(tt.anyOf, tt.allOf, ctx); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
