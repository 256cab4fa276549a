package engine

import (
	"errors"
	"testing"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Basic(t *testing.T) {
	tokens, err := Tokenize("trait.caution * 0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []TokenKind{TokenIdentifier, TokenOperator, TokenNumber, TokenEOF}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if tokens[0].Text != "trait.caution" {
		t.Errorf("expected identifier text trait.caution, got %q", tokens[0].Text)
	}
	if tokens[2].Text != "0.5" {
		t.Errorf("expected number text 0.5, got %q", tokens[2].Text)
	}
}

func TestTokenize_DashInIdentifier(t *testing.T) {
	// trait.detail-focus — один идентификатор, не вычитание
	tokens, err := Tokenize("trait.detail-focus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected identifier + EOF, got %v", tokens)
	}
	if tokens[0].Kind != TokenIdentifier || tokens[0].Text != "trait.detail-focus" {
		t.Errorf("expected single identifier token, got %+v", tokens[0])
	}
}

func TestTokenize_SignedNumbers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenKind
	}{
		{
			name: "leading sign is part of the number",
			src:  "-5",
			want: []TokenKind{TokenNumber, TokenEOF},
		},
		{
			name: "sign after operator is part of the number",
			src:  "3 * -5",
			want: []TokenKind{TokenNumber, TokenOperator, TokenNumber, TokenEOF},
		},
		{
			name: "minus between operands is subtraction",
			src:  "3 - 5",
			want: []TokenKind{TokenNumber, TokenOperator, TokenNumber, TokenEOF},
		},
		{
			name: "sign after lparen",
			src:  "(-5)",
			want: []TokenKind{TokenLParen, TokenNumber, TokenRParen, TokenEOF},
		},
		{
			name: "sign after comma",
			src:  "min(1, -2)",
			want: []TokenKind{TokenIdentifier, TokenLParen, TokenNumber, TokenComma, TokenNumber, TokenRParen, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := kinds(tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestTokenize_WildcardVsMultiplication(t *testing.T) {
	// '*' в начале — wildcard
	tokens, err := Tokenize("*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Kind != TokenWildcard {
		t.Errorf("expected wildcard, got %s", tokens[0].Kind)
	}

	// '*' между операндами — умножение
	tokens, err = Tokenize("2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[1].Kind != TokenOperator {
		t.Errorf("expected operator, got %s", tokens[1].Kind)
	}
}

func TestTokenize_Comparisons(t *testing.T) {
	tokens, err := Tokenize("trait.caution >= 50 == 1 != 0 < 2 > 1 <= 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cmps []string
	for _, tok := range tokens {
		if tok.Kind == TokenComparison {
			cmps = append(cmps, tok.Text)
		}
	}
	want := []string{">=", "==", "!=", "<", ">", "<="}
	if len(cmps) != len(want) {
		t.Fatalf("expected %v, got %v", want, cmps)
	}
	for i := range want {
		if cmps[i] != want[i] {
			t.Errorf("comparison %d: expected %s, got %s", i, want[i], cmps[i])
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  int
	}{
		{name: "unexpected character", src: "2 @ 3", pos: 2},
		{name: "lone exclamation", src: "1 ! 2", pos: 2},
		{name: "malformed number", src: "1. + 2", pos: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected LexError, got %T", err)
			}
			if lexErr.Position != tt.pos {
				t.Errorf("expected position %d, got %d", tt.pos, lexErr.Position)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("  base + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Pos != 2 {
		t.Errorf("expected position 2, got %d", tokens[0].Pos)
	}
	if tokens[1].Pos != 7 {
		t.Errorf("expected position 7, got %d", tokens[1].Pos)
	}
}
