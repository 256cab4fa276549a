package engine

import (
	"errors"
	"testing"
)

func TestNewRule_Validation(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		rule    CompositionRule
		wantErr error
	}{
		{
			name:   "valid rule",
			target: "trait.caution",
			rule:   CompositionRule{Expression: "trait.detail-focus * 0.5", Weight: 1},
		},
		{
			name:    "unknown namespace",
			target:  "unknown.x",
			rule:    CompositionRule{Expression: "1", Weight: 1},
			wantErr: ErrUnknownNamespace,
		},
		{
			name:    "negative weight",
			target:  "trait.caution",
			rule:    CompositionRule{Expression: "1", Weight: -0.5},
			wantErr: ErrBadWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := NewRule(tt.target, tt.rule)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parsed.Target != tt.target || parsed.AST == nil {
				t.Errorf("rule not populated: %+v", parsed)
			}
		})
	}
}

func TestNewRule_BadExpression(t *testing.T) {
	_, err := NewRule("trait.caution", CompositionRule{Expression: "1 +", Weight: 1})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
}

func TestBuildCollection_PreservesInsertionOrder(t *testing.T) {
	rules := []*ParsedRule{
		rule(t, "trait.z", "1", 1),
		rule(t, "trait.a", "2", 1),
		rule(t, "trait.z", "3", 1),
		rule(t, "skill.go", "4", 1),
	}

	c := BuildCollection(rules)
	want := []string{"trait.z", "trait.a", "skill.go"}
	if len(c.Targets) != len(want) {
		t.Fatalf("expected %v, got %v", want, c.Targets)
	}
	for i := range want {
		if c.Targets[i] != want[i] {
			t.Errorf("target %d: expected %s, got %s", i, want[i], c.Targets[i])
		}
	}
	if len(c.Rules("trait.z")) != 2 {
		t.Errorf("expected 2 rules for trait.z, got %d", len(c.Rules("trait.z")))
	}
}

func TestApplyRule_WorkedExample(t *testing.T) {
	// {expression: "trait.caution * 0.5", weight: 1.0}, caution=60 → 30
	ctx := NewContext()
	ctx.Traits["caution"] = 60

	parsed := rule(t, "skill.review", "trait.caution * 0.5", 1.0)
	got, err := ApplyRule(parsed, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 30 {
		t.Errorf("expected 30, got %v", got)
	}
}

func TestApplyRules_WorkedExample(t *testing.T) {
	// [{expr:"50",weight:0.5},{expr:"trait.caution",weight:0.5}], caution=60 → 55
	ctx := NewContext()
	ctx.Traits["caution"] = 60

	rules := []*ParsedRule{
		rule(t, "skill.review", "50", 0.5),
		rule(t, "skill.review", "trait.caution", 0.5),
	}

	got, applied, err := ApplyRules(rules, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 55 {
		t.Errorf("expected 55, got %v", got)
	}
	if len(applied) != 2 {
		t.Errorf("expected 2 applied rules, got %d", len(applied))
	}
}

func TestApplyRules_Empty(t *testing.T) {
	_, _, err := ApplyRules(nil, NewContext())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var engErr *RuleEngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("expected RuleEngineError, got %T", err)
	}
	if !errors.Is(err, ErrNoRules) {
		t.Errorf("expected ErrNoRules, got %v", err)
	}
}

func TestApplyRules_SkipsFailingRules(t *testing.T) {
	ctx := NewContext()
	ctx.Traits["caution"] = 60

	rules := []*ParsedRule{
		rule(t, "skill.review", "trait.missing * 2", 0.9), // упадёт и будет пропущено
		rule(t, "skill.review", "trait.caution", 0.5),
	}

	got, applied, err := ApplyRules(rules, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("expected 60 (only surviving rule), got %v", got)
	}
	if len(applied) != 1 {
		t.Errorf("expected 1 applied rule, got %d", len(applied))
	}
}

func TestApplyRules_AllFailOrZeroWeight(t *testing.T) {
	ctx := NewContext()

	// Все правила падают — вклад 0, без ошибки
	failing := []*ParsedRule{
		rule(t, "skill.review", "trait.missing", 1),
	}
	got, applied, err := ApplyRules(failing, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 || len(applied) != 0 {
		t.Errorf("expected 0 with no applied rules, got %v (%d applied)", got, len(applied))
	}

	// Нулевой суммарный вес — вклад 0
	weightless := []*ParsedRule{
		rule(t, "skill.review", "42", 0),
	}
	got, _, err = ApplyRules(weightless, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0 for zero total weight, got %v", got)
	}
}
