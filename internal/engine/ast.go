package engine

import (
	"strconv"
	"strings"
)

// Expr — узел AST выражения правила.
//
// Варианты: NumberLit, Ident, SpecialValue, Wildcard, BinaryExpr,
// CompareExpr, CallExpr. Дерево неизменяемо после построения;
// вычислитель обходит его исчерпывающим type switch.
type Expr interface {
	// String возвращает каноническую текстовую форму узла.
	String() string

	exprNode()
}

// NumberLit — числовой литерал.
type NumberLit struct {
	// Value — значение литерала.
	Value float64
}

func (*NumberLit) exprNode() {}

// String реализует Expr.
func (n *NumberLit) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Ident — ссылка на target: <namespace>.<key>.
type Ident struct {
	// Namespace — пространство имён: trait, skill, exp, experience, stack.
	Namespace string

	// Key — ключ внутри пространства имён.
	Key string
}

func (*Ident) exprNode() {}

// String реализует Expr.
func (n *Ident) String() string {
	return n.Namespace + "." + n.Key
}

// Target возвращает полный идентификатор target'а.
func (n *Ident) Target() string {
	return n.Namespace + "." + n.Key
}

// SpecialValue — специальное значение контекста: "base" или "current".
type SpecialValue struct {
	// Name — имя специального значения.
	Name string
}

func (*SpecialValue) exprNode() {}

// String реализует Expr.
func (n *SpecialValue) String() string {
	return n.Name
}

// Wildcard — символ '*' в позиции операнда.
// Арифметического значения не имеет: вычисление голого wildcard — ошибка.
type Wildcard struct{}

func (*Wildcard) exprNode() {}

// String реализует Expr.
func (*Wildcard) String() string {
	return "*"
}

// BinaryExpr — арифметическая операция: + - * /.
type BinaryExpr struct {
	// Op — оператор.
	Op string

	// Left, Right — операнды.
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// String реализует Expr.
func (n *BinaryExpr) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

// CompareExpr — сравнение: > < >= <= == !=.
// При вычислении даёт 1 (истина) или 0 (ложь).
type CompareExpr struct {
	// Op — оператор сравнения.
	Op string

	// Left, Right — операнды.
	Left  Expr
	Right Expr
}

func (*CompareExpr) exprNode() {}

// String реализует Expr.
func (n *CompareExpr) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

// CallExpr — вызов встроенной функции: name(arg, ...).
type CallExpr struct {
	// Name — имя функции.
	Name string

	// Args — выражения-аргументы.
	Args []Expr
}

func (*CallExpr) exprNode() {}

// String реализует Expr.
func (n *CallExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "(" + strings.Join(parts, ", ") + ")"
}
