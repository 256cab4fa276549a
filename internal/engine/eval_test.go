package engine

import (
	"errors"
	"math"
	"testing"
)

func evalCtx() *Context {
	ctx := NewContext()
	ctx.Traits["caution"] = 60
	ctx.Skills["go"] = 80
	ctx.Experience["rust"] = 40
	ctx.Stacks["postgres"] = 70
	return ctx
}

func evalString(t *testing.T, src string, ctx *Context) float64 {
	t.Helper()
	expr, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	value, err := Evaluate(expr, ctx)
	if err != nil {
		t.Fatalf("evaluate %q: %v", src, err)
	}
	return value
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{src: "2 + 3", want: 5},
		{src: "2 - 3", want: -1},
		{src: "2 * 3", want: 6},
		{src: "6 / 4", want: 1.5},
		{src: "1 + 2 * 3", want: 7},
		{src: "(1 + 2) * 3", want: 9},
		{src: "-5 + 3", want: -2},
		{src: "2 * -3", want: -6},
	}

	// Арифметика без идентификаторов не зависит от содержимого контекста
	contexts := []*Context{NewContext(), evalCtx()}

	for _, tt := range tests {
		for _, ctx := range contexts {
			got := evalString(t, tt.src, ctx)
			if !almostEqual(got, tt.want) {
				t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
			}
		}
	}
}

func TestEvaluate_References(t *testing.T) {
	ctx := evalCtx()

	tests := []struct {
		src  string
		want float64
	}{
		{src: "trait.caution", want: 60},
		{src: "skill.go", want: 80},
		{src: "exp.rust", want: 40},
		{src: "experience.rust", want: 40},
		{src: "stack.postgres", want: 70},
		{src: "trait.caution * 0.5", want: 30},
	}

	for _, tt := range tests {
		got := evalString(t, tt.src, ctx)
		if !almostEqual(got, tt.want) {
			t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestEvaluate_UndefinedReference(t *testing.T) {
	expr := mustParse(t, "trait.nonexistent")
	_, err := Evaluate(expr, NewContext())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvalError, got %T", err)
	}
}

func TestEvaluate_SpecialValues(t *testing.T) {
	ctx := NewContext()
	ctx.Base = 10
	ctx.Current = 42

	if got := evalString(t, "base", ctx); got != 10 {
		t.Errorf("base = %v, want 10", got)
	}
	if got := evalString(t, "current", ctx); got != 42 {
		t.Errorf("current = %v, want 42", got)
	}
	if got := evalString(t, "current + 8", ctx); got != 50 {
		t.Errorf("current + 8 = %v, want 50", got)
	}

	// Неизвестное специальное значение — EvalError
	expr := mustParse(t, "unknown")
	if _, err := Evaluate(expr, ctx); err == nil {
		t.Error("expected error for unknown special value")
	}
}

func TestEvaluate_Comparisons(t *testing.T) {
	ctx := evalCtx()

	tests := []struct {
		src  string
		want float64
	}{
		{src: "trait.caution > 50", want: 1},
		{src: "trait.caution > 60", want: 0},
		{src: "trait.caution >= 60", want: 1},
		{src: "trait.caution < 60", want: 0},
		{src: "trait.caution <= 60", want: 1},
		{src: "trait.caution == 60", want: 1},
		{src: "trait.caution != 60", want: 0},
		// Сравнения компонуются как числа
		{src: "(trait.caution > 50) * 10", want: 10},
	}

	for _, tt := range tests {
		got := evalString(t, tt.src, ctx)
		if got != tt.want {
			t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestEvaluate_Builtins(t *testing.T) {
	ctx := NewContext()

	tests := []struct {
		src  string
		want float64
	}{
		{src: "min(3, 7)", want: 3},
		{src: "max(3, 7)", want: 7},
		{src: "min(5, 2, 9)", want: 2},
		{src: "abs(-4)", want: 4},
		{src: "abs(4)", want: 4},
		{src: "clamp(150, 0, 100)", want: 100},
		{src: "clamp(-10, 0, 100)", want: 0},
		{src: "clamp(55, 0, 100)", want: 55},
	}

	for _, tt := range tests {
		got := evalString(t, tt.src, ctx)
		if !almostEqual(got, tt.want) {
			t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestEvaluate_UnknownFunction(t *testing.T) {
	expr := mustParse(t, "pow(2, 3)")
	_, err := Evaluate(expr, NewContext())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvalError, got %T", err)
	}
}

func TestEvaluate_RegisterBuiltin(t *testing.T) {
	RegisterBuiltin("double", func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, evalErrorf("double expects 1 argument")
		}
		return args[0] * 2, nil
	})
	defer delete(builtins, "double")

	if got := evalString(t, "double(21)", NewContext()); got != 42 {
		t.Errorf("double(21) = %v, want 42", got)
	}
}

func TestEvaluate_BareWildcard(t *testing.T) {
	expr := mustParse(t, "*")
	_, err := Evaluate(expr, NewContext())
	if err == nil {
		t.Fatal("expected error for bare wildcard")
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvalError, got %T", err)
	}
}

func TestEvaluateCondition(t *testing.T) {
	ctx := evalCtx()

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{name: "true comparison", src: "trait.caution > 50", want: true},
		{name: "false comparison", src: "trait.caution > 90", want: false},
		{name: "nonzero number is true", src: "1", want: true},
		{name: "zero is false", src: "0", want: false},
		{name: "parse error swallowed", src: "trait.caution >", want: false},
		{name: "eval error swallowed", src: "trait.missing > 10", want: false},
		{name: "lex error swallowed", src: "trait.caution @ 10", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateCondition(tt.src, ctx); got != tt.want {
				t.Errorf("EvaluateCondition(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestContext_WithCurrent(t *testing.T) {
	ctx := evalCtx()
	ctx.Current = 1

	view := ctx.WithCurrent(5, 99)
	if view.Current != 99 || view.Base != 5 {
		t.Errorf("view has base=%v current=%v", view.Base, view.Current)
	}
	if ctx.Current != 1 {
		t.Error("view must not mutate the original context")
	}

	// Карты разделяются
	view.Traits["new"] = 7
	if ctx.Traits["new"] != 7 {
		t.Error("maps should be shared between context and view")
	}
}
