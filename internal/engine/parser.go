package engine

import (
	"strconv"
	"strings"
)

// Parse строит AST из потока токенов.
//
// Грамматика (от низшего приоритета к высшему):
//
//	expression     := comparison
//	comparison     := additive (cmpOp additive)*
//	additive       := multiplicative (("+" | "-") multiplicative)*
//	multiplicative := unary (("*" | "/") unary)*
//	unary          := "-" unary | primary
//	primary        := number | identifier | special | wildcard
//	               | call | "(" expression ")"
//
// Вызов функции — идентификатор, за которым сразу (без пробела)
// следует "(". Возвращает *ParseError при неожиданном токене,
// незакрытой скобке, лишних токенах после выражения и пустом выражении.
func Parse(tokens []Token) (Expr, error) {
	p := &parser{tokens: tokens}

	if p.peek().Kind == TokenEOF {
		return nil, &ParseError{Message: "empty expression", Position: p.peek().Pos}
	}

	expr, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, &ParseError{
			Message:  "unexpected token " + describe(tok) + " after expression",
			Position: tok.Pos,
		}
	}

	return expr, nil
}

// ParseString — удобная форма: токенизация + парсинг одной строкой.
func ParseString(source string) (Expr, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// parser — состояние рекурсивного спуска.
type parser struct {
	tokens []Token
	pos    int
}

// peek возвращает текущий токен без сдвига.
func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

// next возвращает текущий токен и сдвигается на следующий.
func (p *parser) next() Token {
	tok := p.peek()
	p.pos++
	return tok
}

// parseComparison — уровень сравнений (низший приоритет).
func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == TokenComparison {
		op := p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &CompareExpr{Op: op.Text, Left: left, Right: right}
	}

	return left, nil
}

// parseAdditive — уровень + и -.
func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Kind != TokenOperator || (tok.Text != "+" && tok.Text != "-") {
			return left, nil
		}
		p.next()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tok.Text, Left: left, Right: right}
	}
}

// parseMultiplicative — уровень * и /.
func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Kind != TokenOperator || (tok.Text != "*" && tok.Text != "/") {
			return left, nil
		}
		p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tok.Text, Left: left, Right: right}
	}
}

// parseUnary — унарный минус.
func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok.Kind == TokenOperator && tok.Text == "-" {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		// -x представляется как (0 - x), отдельного узла не нужно
		return &BinaryExpr{Op: "-", Left: &NumberLit{Value: 0}, Right: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary — листовые конструкции.
func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()

	switch tok.Kind {
	case TokenNumber:
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &ParseError{
				Message:  "bad number literal \"" + tok.Text + "\"",
				Position: tok.Pos,
			}
		}
		return &NumberLit{Value: value}, nil

	case TokenIdentifier:
		// Вызов функции: "(" сразу за идентификатором, без пробела
		if next := p.peek(); next.Kind == TokenLParen && next.Pos == tok.Pos+len(tok.Text) {
			return p.parseCall(tok)
		}
		return identExpr(tok), nil

	case TokenWildcard:
		return &Wildcard{}, nil

	case TokenLParen:
		expr, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.Kind != TokenRParen {
			return nil, &ParseError{
				Message:  "expected ')', got " + describe(closing),
				Position: closing.Pos,
			}
		}
		return expr, nil

	default:
		return nil, &ParseError{
			Message:  "unexpected token " + describe(tok),
			Position: tok.Pos,
		}
	}
}

// parseCall — список аргументов вызова функции.
// Открывающая скобка ещё не поглощена.
func (p *parser) parseCall(name Token) (Expr, error) {
	p.next() // (

	call := &CallExpr{Name: name.Text}

	if p.peek().Kind == TokenRParen {
		p.next()
		return call, nil
	}

	for {
		arg, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		tok := p.next()
		switch tok.Kind {
		case TokenComma:
			continue
		case TokenRParen:
			return call, nil
		default:
			return nil, &ParseError{
				Message:  "expected ',' or ')' in argument list, got " + describe(tok),
				Position: tok.Pos,
			}
		}
	}
}

// identExpr превращает токен-идентификатор в узел AST.
// С точкой — ссылка на target, без точки — специальное значение
// ("base", "current"; прочие имена отклонит вычислитель).
func identExpr(tok Token) Expr {
	if ns, key, ok := strings.Cut(tok.Text, "."); ok {
		return &Ident{Namespace: ns, Key: key}
	}
	return &SpecialValue{Name: tok.Text}
}

// describe форматирует токен для сообщения об ошибке.
func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of expression"
	}
	return "\"" + tok.Text + "\""
}
