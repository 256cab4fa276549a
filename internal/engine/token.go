package engine

// TokenKind — вид токена в выражении правила.
type TokenKind int

const (
	// TokenNumber — числовой литерал: "42", "0.5", "-3.1".
	TokenNumber TokenKind = iota

	// TokenIdentifier — идентификатор: "trait.caution", "base", "min".
	TokenIdentifier

	// TokenOperator — арифметический оператор: + - * /.
	TokenOperator

	// TokenComparison — оператор сравнения: > < >= <= == !=.
	TokenComparison

	// TokenLParen — открывающая скобка.
	TokenLParen

	// TokenRParen — закрывающая скобка.
	TokenRParen

	// TokenComma — запятая в списке аргументов функции.
	TokenComma

	// TokenWildcard — символ * в позиции операнда (не умножение).
	TokenWildcard

	// TokenEOF — конец выражения (всегда последний токен).
	TokenEOF
)

// String возвращает читаемое имя вида токена.
func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenIdentifier:
		return "identifier"
	case TokenOperator:
		return "operator"
	case TokenComparison:
		return "comparison"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenComma:
		return ","
	case TokenWildcard:
		return "wildcard"
	case TokenEOF:
		return "EOF"
	default:
		return "unknown"
	}
}

// Token — один токен выражения.
type Token struct {
	// Kind — вид токена.
	Kind TokenKind

	// Text — исходный текст токена.
	Text string

	// Pos — байтовый offset начала токена в исходной строке.
	Pos int
}
