package sat

import "testing"

func TestLiteral_oppositeIsInvolution(t *testing.T) {
	for v := Variable(0); v < 8; v++ {
		pos := PositiveLiteral(v)
		neg := NegativeLiteral(v)

		if pos.Opposite() != neg {
			t.Errorf("PositiveLiteral(%d).Opposite() = %v, want %v", v, pos.Opposite(), neg)
		}
		if neg.Opposite() != pos {
			t.Errorf("NegativeLiteral(%d).Opposite() = %v, want %v", v, neg.Opposite(), pos)
		}
		if pos.Opposite().Opposite() != pos {
			t.Errorf("Opposite is not an involution for variable %d", v)
		}
		if pos.Var() != v || neg.Var() != v {
			t.Errorf("Var() roundtrip broken for variable %d", v)
		}
		if !pos.IsPositive() || neg.IsPositive() {
			t.Errorf("IsPositive() wrong for variable %d", v)
		}
	}
}

func TestLitFromDIMACS(t *testing.T) {
	tests := []struct {
		in   int
		want Literal
	}{
		{1, PositiveLiteral(0)},
		{-1, NegativeLiteral(0)},
		{5, PositiveLiteral(4)},
		{-5, NegativeLiteral(4)},
	}
	for _, tt := range tests {
		if got := litFromDIMACS(tt.in); got != tt.want {
			t.Errorf("litFromDIMACS(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
