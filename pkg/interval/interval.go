// Package interval provides the integer domain algebra used by the CLP
// solver. An Interval is a closed range of integers; a MultiInterval is a
// canonical, sorted list of disjoint, non-adjacent intervals.
//
// All values are clamped to the representable universe [Inf, Sup].
// Operations never modify their receivers: every operation returns a new
// value, so domains can be shared freely between solver snapshots.
package interval

import (
	"fmt"
	"math"
)

// Inf and Sup are the smallest and largest representable integers.
// They are kept well inside the int32 range so that products of two
// bounds never overflow int64 arithmetic.
const (
	Inf = math.MinInt32 / 2
	Sup = math.MaxInt32 / 2
)

// Interval is the closed integer range [lo, hi]. An interval with lo > hi
// is empty.
type Interval struct {
	lo, hi int
}

// emptyInterval is the canonical empty interval.
var emptyInterval = Interval{lo: 1, hi: 0}

// New returns the interval [lo, hi] clamped to [Inf, Sup]. The result is
// empty when lo > hi or when the range lies entirely outside the universe.
func New(lo, hi int) Interval {
	if lo > hi || lo > Sup || hi < Inf {
		return emptyInterval
	}
	if lo < Inf {
		lo = Inf
	}
	if hi > Sup {
		hi = Sup
	}
	return Interval{lo: lo, hi: hi}
}

// Singleton returns [v, v].
func Singleton(v int) Interval {
	return New(v, v)
}

// Full returns the whole universe [Inf, Sup].
func Full() Interval {
	return Interval{lo: Inf, hi: Sup}
}

// IsEmpty reports whether the interval contains no integer.
func (i Interval) IsEmpty() bool {
	return i.lo > i.hi
}

// Low returns the lower bound. Meaningless for an empty interval.
func (i Interval) Low() int { return i.lo }

// High returns the upper bound. Meaningless for an empty interval.
func (i Interval) High() int { return i.hi }

// Size returns the number of integers in the interval.
func (i Interval) Size() int {
	if i.IsEmpty() {
		return 0
	}
	return i.hi - i.lo + 1
}

// Contains reports whether v lies in the interval.
func (i Interval) Contains(v int) bool {
	return i.lo <= v && v <= i.hi
}

// Intersect returns the common part of i and o.
func (i Interval) Intersect(o Interval) Interval {
	if i.IsEmpty() || o.IsEmpty() {
		return emptyInterval
	}
	return New(max(i.lo, o.lo), min(i.hi, o.hi))
}

// Sum returns {a + b | a in i, b in o}.
func (i Interval) Sum(o Interval) Interval {
	if i.IsEmpty() || o.IsEmpty() {
		return emptyInterval
	}
	return New(i.lo+o.lo, i.hi+o.hi)
}

// Sub returns {a - b | a in i, b in o}.
func (i Interval) Sub(o Interval) Interval {
	if i.IsEmpty() || o.IsEmpty() {
		return emptyInterval
	}
	return New(i.lo-o.hi, i.hi-o.lo)
}

// Mul returns the smallest interval containing every product a * b with a
// in i and b in o, computed from the four corner products.
func (i Interval) Mul(o Interval) Interval {
	if i.IsEmpty() || o.IsEmpty() {
		return emptyInterval
	}
	lo, hi := corners(i, o, func(a, b int64) int64 { return a * b })
	return New(clamp(lo), clamp(hi))
}

// Div returns an interval containing every truncated quotient a / b with a
// in i and b in o, b != 0. Zero endpoints of the divisor are trimmed. When
// the divisor straddles zero the quotient cannot be bounded and the whole
// universe is returned, unless the dividend is exactly {0}.
func (i Interval) Div(o Interval) Interval {
	if i.IsEmpty() || o.IsEmpty() {
		return emptyInterval
	}
	if i.lo == 0 && i.hi == 0 {
		if o.lo == 0 && o.hi == 0 {
			return emptyInterval
		}
		return Singleton(0)
	}
	if o.lo < 0 && o.hi > 0 {
		return Full()
	}
	if o.lo == 0 {
		o = New(1, o.hi)
	}
	if o.hi == 0 {
		o = New(o.lo, -1)
	}
	if o.IsEmpty() {
		return emptyInterval
	}
	lo, hi := corners(i, o, func(a, b int64) int64 { return a / b })
	return New(clamp(lo), clamp(hi))
}

// String renders the interval as "lo..hi", "v" for singletons and "{}"
// when empty.
func (i Interval) String() string {
	switch {
	case i.IsEmpty():
		return "{}"
	case i.lo == i.hi:
		return fmt.Sprintf("%d", i.lo)
	default:
		return fmt.Sprintf("%d..%d", i.lo, i.hi)
	}
}

func corners(i, o Interval, op func(a, b int64) int64) (int64, int64) {
	vals := [4]int64{
		op(int64(i.lo), int64(o.lo)),
		op(int64(i.lo), int64(o.hi)),
		op(int64(i.hi), int64(o.lo)),
		op(int64(i.hi), int64(o.hi)),
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func clamp(v int64) int {
	switch {
	case v < Inf:
		return Inf
	case v > Sup:
		return Sup
	default:
		return int(v)
	}
}
