package interval

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		lo, hi    int
		wantEmpty bool
		wantSize  int
	}{
		{"regular", 1, 5, false, 5},
		{"singleton", 3, 3, false, 1},
		{"reversed", 5, 1, true, 0},
		{"clamped low", Inf - 10, Inf + 1, false, 2},
		{"above universe", Sup + 1, Sup + 10, true, 0},
		{"below universe", Inf - 10, Inf - 1, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := New(tt.lo, tt.hi)
			if iv.IsEmpty() != tt.wantEmpty {
				t.Fatalf("IsEmpty() = %v, want %v", iv.IsEmpty(), tt.wantEmpty)
			}
			if iv.Size() != tt.wantSize {
				t.Errorf("Size() = %d, want %d", iv.Size(), tt.wantSize)
			}
		})
	}
}

func TestIntervalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Interval
		want Interval
	}{
		{"sum", New(1, 3).Sum(New(10, 20)), New(11, 23)},
		{"sub", New(1, 3).Sub(New(10, 20)), New(-19, -7)},
		{"mul positive", New(2, 3).Mul(New(4, 5)), New(8, 15)},
		{"mul mixed signs", New(-2, 3).Mul(New(-4, 5)), New(-12, 15)},
		{"div positive", New(10, 20).Div(New(2, 5)), New(2, 10)},
		{"div negative divisor", New(10, 20).Div(New(-5, -2)), New(-10, -2)},
		{"div zero endpoint trimmed", New(10, 20).Div(New(0, 5)), New(2, 20)},
		{"div straddling zero", New(10, 20).Div(New(-1, 1)), Full()},
		{"div zero dividend", New(0, 0).Div(New(-1, 1)), Singleton(0)},
		{"div by zero only", New(1, 2).Div(New(0, 0)), emptyInterval},
		{"intersect", New(1, 10).Intersect(New(5, 20)), New(5, 10)},
		{"intersect disjoint", New(1, 3).Intersect(New(5, 20)), emptyInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestMulClampsToUniverse(t *testing.T) {
	got := New(Sup-1, Sup).Mul(New(Sup-1, Sup))
	if got.Low() != Sup || got.High() != Sup {
		t.Errorf("got %v, want [%d..%d]", got, Sup, Sup)
	}
}

func TestIntervalString(t *testing.T) {
	if got := New(1, 4).String(); got != "1..4" {
		t.Errorf("String() = %q", got)
	}
	if got := Singleton(7).String(); got != "7" {
		t.Errorf("String() = %q", got)
	}
	if got := New(4, 1).String(); got != "{}" {
		t.Errorf("String() = %q", got)
	}
}
