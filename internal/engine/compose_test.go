package engine

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"
)

func newComposer(policy AnchorPolicy) *Composer {
	return NewComposer(policy, slog.Default())
}

func TestTargetType(t *testing.T) {
	tests := []struct {
		target string
		want   string
		ok     bool
	}{
		{target: "trait.caution", want: "trait", ok: true},
		{target: "skill.go", want: "skill", ok: true},
		{target: "exp.rust", want: "exp", ok: true},
		{target: "experience.rust", want: "experience", ok: true},
		{target: "stack.postgres", want: "stack", ok: true},
		{target: "unknown.x", ok: false},
		{target: "nodot", ok: false},
	}

	for _, tt := range tests {
		got, err := TargetType(tt.target)
		if tt.ok {
			if err != nil {
				t.Errorf("TargetType(%q): unexpected error %v", tt.target, err)
			}
			if got != tt.want {
				t.Errorf("TargetType(%q) = %q, want %q", tt.target, got, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrUnknownNamespace) {
			t.Errorf("TargetType(%q): expected ErrUnknownNamespace, got %v", tt.target, err)
		}
	}
}

func TestBaseValue_SameForAllTypes(t *testing.T) {
	for _, typ := range []string{"trait", "skill", "exp", "experience", "stack"} {
		if got := BaseValue(typ); got != 0 {
			t.Errorf("BaseValue(%s) = %v, want 0", typ, got)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		value float64
		typ   string
		want  float64
	}{
		{value: 150, typ: "trait", want: 100},
		{value: -150, typ: "trait", want: -100},
		{value: -50, typ: "trait", want: -50},
		{value: 120, typ: "skill", want: 100},
		{value: -10, typ: "skill", want: 0},
		{value: 32.4, typ: "exp", want: 32.4},
		{value: 99.9, typ: "stack", want: 99.9},
	}

	for _, tt := range tests {
		if got := NormalizeValue(tt.value, tt.typ); got != tt.want {
			t.Errorf("NormalizeValue(%v, %s) = %v, want %v", tt.value, tt.typ, got, tt.want)
		}
	}
}

func TestCompose_DependencyWorkedExample(t *testing.T) {
	// trait.caution: 0.6 × (detail-focus*0.5) + 0.4 × (perfectionism*0.3),
	// detail-focus=80, perfectionism=70 → ≈32.4
	rules := []*ParsedRule{
		rule(t, "trait.caution", "trait.detail-focus * 0.5", 0.6),
		rule(t, "trait.caution", "trait.perfectionism * 0.3", 0.4),
	}
	anchors := map[string]float64{
		"trait.detail-focus":  80,
		"trait.perfectionism": 70,
	}

	values, trace, err := newComposer(AnchorAddRuleDelta).Compute(rules, anchors, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := values["trait.caution"]; !almostEqual(got, 32.4) {
		t.Errorf("trait.caution = %v, want 32.4", got)
	}

	vt, ok := trace.Values["trait.caution"]
	if !ok {
		t.Fatal("trace missing trait.caution")
	}
	if vt.IsAnchor {
		t.Error("trait.caution is not anchored")
	}
	if len(vt.RulesApplied) != 2 {
		t.Errorf("expected 2 applied rules in trace, got %d", len(vt.RulesApplied))
	}
}

func TestCompose_AnchorAddRuleDelta(t *testing.T) {
	// Anchor служит current; вклад правил прибавляется
	rules := []*ParsedRule{
		rule(t, "trait.caution", "10", 1),
	}
	anchors := map[string]float64{"trait.caution": 40}

	values, trace, err := newComposer(AnchorAddRuleDelta).Compute(rules, anchors, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values["trait.caution"]; got != 50 {
		t.Errorf("expected 40 + 10 = 50, got %v", got)
	}
	if !trace.Values["trait.caution"].IsAnchor {
		t.Error("trace should mark the target as anchored")
	}
}

func TestCompose_AnchorReplaces(t *testing.T) {
	// Политика замены: anchor возвращается как есть, правила игнорируются
	rules := []*ParsedRule{
		rule(t, "trait.caution", "10", 1),
	}
	anchors := map[string]float64{"trait.caution": 40}

	values, trace, err := newComposer(AnchorReplaces).Compute(rules, anchors, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values["trait.caution"]; got != 40 {
		t.Errorf("expected anchor 40 unmodified, got %v", got)
	}
	if applied := trace.Values["trait.caution"].RulesApplied; len(applied) != 0 {
		t.Errorf("expected no applied rules, got %v", applied)
	}
}

func TestCompose_CurrentVisibleToOwnRules(t *testing.T) {
	// Выражение target'а видит current — значение до применения правил
	rules := []*ParsedRule{
		rule(t, "trait.caution", "current + 5", 1),
	}
	anchors := map[string]float64{"trait.caution": 30}

	values, _, err := newComposer(AnchorAddRuleDelta).Compute(rules, anchors, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// current = 30, правило даёт 35, anchor blend: 30 + 35 = 65
	if got := values["trait.caution"]; got != 65 {
		t.Errorf("expected 65, got %v", got)
	}
}

func TestCompose_LaterTargetsSeeEarlierValues(t *testing.T) {
	rules := []*ParsedRule{
		rule(t, "skill.review", "trait.caution * 0.5", 1),
		rule(t, "trait.caution", "60", 1),
	}

	values, trace, err := newComposer(AnchorAddRuleDelta).Compute(rules, nil, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := values["trait.caution"]; got != 60 {
		t.Errorf("trait.caution = %v, want 60", got)
	}
	if got := values["skill.review"]; got != 30 {
		t.Errorf("skill.review = %v, want 30", got)
	}

	want := []string{"trait.caution", "skill.review"}
	if !reflect.DeepEqual(trace.ComputationOrder, want) {
		t.Errorf("expected order %v, got %v", want, trace.ComputationOrder)
	}
}

func TestCompose_CyclicTargetsKeepAnchorBase(t *testing.T) {
	rules := []*ParsedRule{
		rule(t, "trait.caution", "trait.boldness * 0.5", 1),
		rule(t, "trait.boldness", "trait.caution * 0.5", 1),
	}
	anchors := map[string]float64{"trait.caution": 25}

	values, trace, err := newComposer(AnchorAddRuleDelta).Compute(rules, anchors, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trace.CircularDependencies) != 1 {
		t.Fatalf("expected 1 cycle, got %v", trace.CircularDependencies)
	}
	if len(trace.ComputationOrder) != 0 {
		t.Errorf("expected empty order, got %v", trace.ComputationOrder)
	}

	// Участники цикла сохраняют anchor/base
	if got := values["trait.caution"]; got != 25 {
		t.Errorf("anchored cyclic target = %v, want 25", got)
	}
	if got := values["trait.boldness"]; got != 0 {
		t.Errorf("unanchored cyclic target = %v, want base 0", got)
	}
}

func TestCompose_AnchorOnlyTargetsPassThrough(t *testing.T) {
	anchors := map[string]float64{
		"skill.go":  120, // будет зажат
		"trait.odd": -150,
	}

	values, _, err := newComposer(AnchorAddRuleDelta).Compute(nil, anchors, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values["skill.go"]; got != 100 {
		t.Errorf("skill.go = %v, want clamped 100", got)
	}
	if got := values["trait.odd"]; got != -100 {
		t.Errorf("trait.odd = %v, want clamped -100", got)
	}
}

func TestCompose_FailedRulesFallBack(t *testing.T) {
	// Единственное правило падает — target сохраняет base
	rules := []*ParsedRule{
		rule(t, "skill.review", "trait.missing * 2", 1),
	}

	values, trace, err := newComposer(AnchorAddRuleDelta).Compute(rules, nil, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Все правила упали: комбинация 0, что совпадает с base для skill
	if got := values["skill.review"]; got != 0 {
		t.Errorf("skill.review = %v, want 0", got)
	}
	if applied := trace.Values["skill.review"].RulesApplied; len(applied) != 0 {
		t.Errorf("expected no applied rules, got %v", applied)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	rules := []*ParsedRule{
		rule(t, "trait.caution", "trait.detail-focus * 0.5", 0.6),
		rule(t, "trait.caution", "trait.perfectionism * 0.3", 0.4),
		rule(t, "skill.review", "trait.caution * 0.8", 1),
		rule(t, "stack.postgres", "skill.review / 2", 1),
	}
	anchors := map[string]float64{
		"trait.detail-focus":  80,
		"trait.perfectionism": 70,
	}

	firstValues, firstTrace, err := newComposer(AnchorAddRuleDelta).Compute(rules, anchors, NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 20; i++ {
		values, trace, err := newComposer(AnchorAddRuleDelta).Compute(rules, anchors, NewContext())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(values, firstValues) {
			t.Fatalf("values differ between runs: %v vs %v", firstValues, values)
		}
		if !reflect.DeepEqual(trace.ComputationOrder, firstTrace.ComputationOrder) {
			t.Fatalf("order differs between runs")
		}
	}
}

func TestComputeValue_ReplacePolicy(t *testing.T) {
	ctx := NewContext()
	ctx.Traits["caution"] = 60

	anchor := 47.5
	rules := []*ParsedRule{
		rule(t, "skill.review", "trait.caution", 1),
	}

	// С anchor'ом правила игнорируются
	got, err := ComputeValue("skill.review", &anchor, rules, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 47.5 {
		t.Errorf("expected anchor 47.5, got %v", got)
	}

	// Без anchor'а значение выводится из правил
	got, err = ComputeValue("skill.review", nil, rules, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("expected 60, got %v", got)
	}

	// Нераспознанное пространство имён — ошибка
	if _, err := ComputeValue("unknown.x", nil, rules, ctx); !errors.Is(err, ErrUnknownNamespace) {
		t.Errorf("expected ErrUnknownNamespace, got %v", err)
	}
}

func TestParseAnchorPolicy(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   AnchorPolicy
		wantOK bool
	}{
		{name: "default", input: "", want: AnchorAddRuleDelta, wantOK: true},
		{name: "add", input: "add-rule-delta", want: AnchorAddRuleDelta, wantOK: true},
		{name: "replace", input: "replace-with-anchor", want: AnchorReplaces, wantOK: true},
		{name: "garbage", input: "whatever", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnchorPolicy(tt.input)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
				return
			}
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
