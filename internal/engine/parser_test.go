package engine

import (
	"errors"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, src string) Expr {
	t.Helper()
	expr, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr
}

func TestParse_Precedence(t *testing.T) {
	// 1 + 2 * 3 == (1 + (2 * 3))
	expr := mustParse(t, "1 + 2 * 3")

	add, ok := expr.(*BinaryExpr)
	if !ok || add.Op != "+" {
		t.Fatalf("expected + at root, got %s", expr)
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected * on the right, got %s", add.Right)
	}
}

func TestParse_ComparisonLowestPrecedence(t *testing.T) {
	expr := mustParse(t, "trait.caution + 10 > skill.go * 2")

	cmp, ok := expr.(*CompareExpr)
	if !ok || cmp.Op != ">" {
		t.Fatalf("expected comparison at root, got %s", expr)
	}
	if _, ok := cmp.Left.(*BinaryExpr); !ok {
		t.Errorf("expected additive on the left, got %s", cmp.Left)
	}
	if _, ok := cmp.Right.(*BinaryExpr); !ok {
		t.Errorf("expected multiplicative on the right, got %s", cmp.Right)
	}
}

func TestParse_Parens(t *testing.T) {
	expr := mustParse(t, "(1 + 2) * 3")

	mul, ok := expr.(*BinaryExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected * at root, got %s", expr)
	}
	add, ok := mul.Left.(*BinaryExpr)
	if !ok || add.Op != "+" {
		t.Fatalf("expected + on the left, got %s", mul.Left)
	}
}

func TestParse_Identifier(t *testing.T) {
	expr := mustParse(t, "trait.detail-focus")

	ident, ok := expr.(*Ident)
	if !ok {
		t.Fatalf("expected Ident, got %T", expr)
	}
	if ident.Namespace != "trait" || ident.Key != "detail-focus" {
		t.Errorf("expected trait/detail-focus, got %s/%s", ident.Namespace, ident.Key)
	}
}

func TestParse_SpecialValues(t *testing.T) {
	for _, name := range []string{"base", "current"} {
		expr := mustParse(t, name)
		sv, ok := expr.(*SpecialValue)
		if !ok {
			t.Fatalf("expected SpecialValue for %q, got %T", name, expr)
		}
		if sv.Name != name {
			t.Errorf("expected name %q, got %q", name, sv.Name)
		}
	}
}

func TestParse_FunctionCall(t *testing.T) {
	expr := mustParse(t, "clamp(trait.caution + 10, 0, 100)")

	call, ok := expr.(*CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", expr)
	}
	if call.Name != "clamp" {
		t.Errorf("expected name clamp, got %q", call.Name)
	}
	if len(call.Args) != 3 {
		t.Errorf("expected 3 args, got %d", len(call.Args))
	}
}

func TestParse_CallRequiresAdjacentParen(t *testing.T) {
	// "min (1, 2)" — скобка отделена пробелом, это не вызов
	_, err := ParseString("min (1, 2)")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
}

func TestParse_UnaryMinus(t *testing.T) {
	expr := mustParse(t, "-trait.caution")

	bin, ok := expr.(*BinaryExpr)
	if !ok || bin.Op != "-" {
		t.Fatalf("expected subtraction node, got %s", expr)
	}
	if lit, ok := bin.Left.(*NumberLit); !ok || lit.Value != 0 {
		t.Errorf("expected zero on the left, got %s", bin.Left)
	}
}

func TestParse_Wildcard(t *testing.T) {
	expr := mustParse(t, "*")
	if _, ok := expr.(*Wildcard); !ok {
		t.Fatalf("expected Wildcard, got %T", expr)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty expression", src: ""},
		{name: "blank expression", src: "   "},
		{name: "unmatched paren", src: "(1 + 2"},
		{name: "trailing tokens", src: "1 + 2 3"},
		{name: "operator without operand", src: "1 +"},
		{name: "dangling comma", src: "min(1,)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T", err)
			}
		})
	}
}

func TestParse_StringFormEqualsTokenForm(t *testing.T) {
	// parse(tokenize(expr)) и parse(expr) дают структурно равные AST
	sources := []string{
		"trait.caution * 0.5",
		"clamp(current + skill.go, 0, 100)",
		"base + -5 > 10",
		"(exp.rust + stack.postgres) / 2",
	}

	for _, src := range sources {
		tokens, err := Tokenize(src)
		if err != nil {
			t.Fatalf("tokenize %q: %v", src, err)
		}
		fromTokens, err := Parse(tokens)
		if err != nil {
			t.Fatalf("parse tokens of %q: %v", src, err)
		}
		fromString, err := ParseString(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if !reflect.DeepEqual(fromTokens, fromString) {
			t.Errorf("ASTs differ for %q: %s vs %s", src, fromTokens, fromString)
		}
	}
}
