package sat

import "fmt"

// Variable is a dense, zero-based index identifying a Boolean variable.
// Variables and literals are kept as distinct types so the two index spaces
// can never be silently conflated.
type Variable int

// Literal represents a variable or its negation, encoded as 2*v+s so that
// l^1 always yields the opposite literal.
type Literal int

// PositiveLiteral returns the literal asserting that v is true.
func PositiveLiteral(v Variable) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the literal asserting that v is false.
func NegativeLiteral(v Variable) Literal {
	return PositiveLiteral(v).Opposite()
}

// Var returns the variable underlying the literal.
func (l Literal) Var() Variable {
	return Variable(l / 2)
}

// IsPositive reports whether l asserts its variable (as opposed to its
// negation).
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the negation of l.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.Var())
	}
	return fmt.Sprintf("-%d", l.Var())
}

// litFromDIMACS converts a signed, 1-based DIMACS integer into a Literal.
// The sign encodes polarity; 0 is not a valid literal.
func litFromDIMACS(x int) Literal {
	if x < 0 {
		return NegativeLiteral(Variable(-x - 1))
	}
	return PositiveLiteral(Variable(x - 1))
}
