package engine

// Tokenize разбивает строку выражения на токены.
//
// Правила:
//   - Идентификатор начинается с буквы, дальше — буквы, цифры, '.' и '-'
//     ("trait.detail-focus" — один токен).
//   - Число — десятичное, опционально со знаком и дробной частью.
//     Знак '-' считается частью числа только в префиксной позиции
//     (в начале выражения, после оператора, сравнения, '(' или ','),
//     иначе это оператор вычитания.
//   - '*' в префиксной позиции — wildcard, в инфиксной — умножение.
//   - Пробельные символы пропускаются.
//
// Возвращает токены с завершающим TokenEOF. При нераспознанном символе
// или некорректном числовом литерале возвращает *LexError.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{src: source}
	return lx.run()
}

// lexer — состояние лексического анализа одной строки.
type lexer struct {
	src    string
	pos    int
	tokens []Token
}

// run выполняет полный проход по строке.
func (lx *lexer) run() ([]Token, error) {
	for {
		lx.skipSpace()
		if lx.pos >= len(lx.src) {
			break
		}

		start := lx.pos
		ch := lx.src[lx.pos]

		switch {
		case isLetter(ch):
			lx.lexIdentifier(start)

		case isDigit(ch):
			if err := lx.lexNumber(start); err != nil {
				return nil, err
			}

		case ch == '-' && lx.prefixPosition() && lx.digitFollows():
			lx.pos++
			if err := lx.lexNumber(start); err != nil {
				return nil, err
			}

		case ch == '*' && lx.prefixPosition():
			lx.pos++
			lx.emit(TokenWildcard, start)

		case ch == '+' || ch == '-' || ch == '*' || ch == '/':
			lx.pos++
			lx.emit(TokenOperator, start)

		case ch == '>' || ch == '<':
			lx.pos++
			if lx.pos < len(lx.src) && lx.src[lx.pos] == '=' {
				lx.pos++
			}
			lx.emit(TokenComparison, start)

		case ch == '=' || ch == '!':
			lx.pos++
			if lx.pos >= len(lx.src) || lx.src[lx.pos] != '=' {
				return nil, &LexError{
					Message:  "expected '=' after " + string(ch),
					Position: start,
				}
			}
			lx.pos++
			lx.emit(TokenComparison, start)

		case ch == '(':
			lx.pos++
			lx.emit(TokenLParen, start)

		case ch == ')':
			lx.pos++
			lx.emit(TokenRParen, start)

		case ch == ',':
			lx.pos++
			lx.emit(TokenComma, start)

		default:
			return nil, &LexError{
				Message:  "unexpected character '" + string(ch) + "'",
				Position: start,
			}
		}
	}

	lx.tokens = append(lx.tokens, Token{Kind: TokenEOF, Pos: len(lx.src)})
	return lx.tokens, nil
}

// emit добавляет токен от start до текущей позиции.
func (lx *lexer) emit(kind TokenKind, start int) {
	lx.tokens = append(lx.tokens, Token{
		Kind: kind,
		Text: lx.src[start:lx.pos],
		Pos:  start,
	})
}

// skipSpace пропускает пробельные символы.
func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ', '\t', '\n', '\r':
			lx.pos++
		default:
			return
		}
	}
}

// lexIdentifier читает идентификатор: буква, затем буквы/цифры/'.'/'-'.
func (lx *lexer) lexIdentifier(start int) {
	lx.pos++
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		if isLetter(ch) || isDigit(ch) || ch == '.' || ch == '-' {
			lx.pos++
			continue
		}
		break
	}
	lx.emit(TokenIdentifier, start)
}

// lexNumber читает число: целая часть, опционально '.' и дробная часть.
// Знак (если был) уже поглощён вызывающим кодом.
func (lx *lexer) lexNumber(start int) error {
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}

	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		lx.pos++
		if lx.pos >= len(lx.src) || !isDigit(lx.src[lx.pos]) {
			return &LexError{
				Message:  "malformed number literal \"" + lx.src[start:lx.pos] + "\"",
				Position: start,
			}
		}
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}

	lx.emit(TokenNumber, start)
	return nil
}

// prefixPosition сообщает, находится ли лексер в префиксной позиции:
// предыдущий токен не может завершать операнд. Используется для
// различения wildcard/умножения и знака числа/вычитания.
func (lx *lexer) prefixPosition() bool {
	if len(lx.tokens) == 0 {
		return true
	}
	switch lx.tokens[len(lx.tokens)-1].Kind {
	case TokenNumber, TokenIdentifier, TokenRParen, TokenWildcard:
		return false
	default:
		return true
	}
}

// digitFollows проверяет, что сразу за текущим символом идёт цифра.
func (lx *lexer) digitFollows() bool {
	return lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])
}

// isLetter проверяет ASCII-букву.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit проверяет ASCII-цифру.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
