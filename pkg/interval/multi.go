package interval

import (
	"strings"

	"golang.org/x/exp/slices"
)

// MultiInterval is a finite set of integers stored as a sorted list of
// disjoint intervals. Two consecutive intervals are always separated by a
// gap of at least one integer, so the representation of a set is unique.
// The cardinality is cached.
//
// The zero value is the empty set.
type MultiInterval struct {
	ivs  []Interval
	size int
}

// Empty returns the empty set.
func Empty() MultiInterval {
	return MultiInterval{}
}

// Universe returns [Inf, Sup] as a MultiInterval.
func Universe() MultiInterval {
	return FromIntervals(Full())
}

// Range returns the set {lo, ..., hi}.
func Range(lo, hi int) MultiInterval {
	return FromIntervals(New(lo, hi))
}

// Of returns the set containing exactly the given values. Values outside
// the universe are dropped.
func Of(values ...int) MultiInterval {
	ivs := make([]Interval, 0, len(values))
	for _, v := range values {
		ivs = append(ivs, Singleton(v))
	}
	return FromIntervals(ivs...)
}

// FromIntervals builds the canonical form of the union of ivs.
func FromIntervals(ivs ...Interval) MultiInterval {
	return normalize(slices.Clone(ivs))
}

// normalize sorts and merges ivs in place and computes the cached size.
func normalize(ivs []Interval) MultiInterval {
	out := ivs[:0]
	for _, iv := range ivs {
		if !iv.IsEmpty() {
			out = append(out, iv)
		}
	}
	slices.SortFunc(out, func(a, b Interval) int {
		switch {
		case a.lo < b.lo:
			return -1
		case a.lo > b.lo:
			return 1
		default:
			return 0
		}
	})

	merged := make([]Interval, 0, len(out))
	for _, iv := range out {
		n := len(merged)
		if n > 0 && iv.lo <= merged[n-1].hi+1 {
			if iv.hi > merged[n-1].hi {
				merged[n-1].hi = iv.hi
			}
			continue
		}
		merged = append(merged, iv)
	}

	m := MultiInterval{ivs: merged}
	for _, iv := range merged {
		m.size += iv.Size()
	}
	if len(merged) == 0 {
		m.ivs = nil
	}
	return m
}

// IsEmpty reports whether the set has no elements.
func (m MultiInterval) IsEmpty() bool { return len(m.ivs) == 0 }

// Size returns the number of elements.
func (m MultiInterval) Size() int { return m.size }

// IsSingleton reports whether the set has exactly one element.
func (m MultiInterval) IsSingleton() bool { return m.size == 1 }

// Min returns the smallest element. It panics on the empty set.
func (m MultiInterval) Min() int {
	if m.IsEmpty() {
		panic("interval: Min of empty set")
	}
	return m.ivs[0].lo
}

// Max returns the largest element. It panics on the empty set.
func (m MultiInterval) Max() int {
	if m.IsEmpty() {
		panic("interval: Max of empty set")
	}
	return m.ivs[len(m.ivs)-1].hi
}

// Intervals returns a copy of the canonical interval list.
func (m MultiInterval) Intervals() []Interval {
	return slices.Clone(m.ivs)
}

// Contains reports whether v is an element.
func (m MultiInterval) Contains(v int) bool {
	i, found := slices.BinarySearchFunc(m.ivs, v, func(iv Interval, v int) int {
		switch {
		case iv.hi < v:
			return -1
		case iv.lo > v:
			return 1
		default:
			return 0
		}
	})
	return found && m.ivs[i].Contains(v)
}

// ContainsAll reports whether every element of o is in m.
func (m MultiInterval) ContainsAll(o MultiInterval) bool {
	return o.Subset(m)
}

// Subset reports whether m is a subset of o.
func (m MultiInterval) Subset(o MultiInterval) bool {
	if m.size > o.size {
		return false
	}
	return m.Diff(o).IsEmpty()
}

// Equal reports whether m and o contain the same integers.
func (m MultiInterval) Equal(o MultiInterval) bool {
	return m.size == o.size && slices.Equal(m.ivs, o.ivs)
}

// Union returns m ∪ o.
func (m MultiInterval) Union(o MultiInterval) MultiInterval {
	if o.IsEmpty() {
		return m
	}
	if m.IsEmpty() {
		return o
	}
	ivs := make([]Interval, 0, len(m.ivs)+len(o.ivs))
	ivs = append(ivs, m.ivs...)
	ivs = append(ivs, o.ivs...)
	return normalize(ivs)
}

// Intersect returns m ∩ o.
func (m MultiInterval) Intersect(o MultiInterval) MultiInterval {
	var ivs []Interval
	i, j := 0, 0
	for i < len(m.ivs) && j < len(o.ivs) {
		a, b := m.ivs[i], o.ivs[j]
		if x := a.Intersect(b); !x.IsEmpty() {
			ivs = append(ivs, x)
		}
		if a.hi < b.hi {
			i++
		} else {
			j++
		}
	}
	return normalize(ivs)
}

// Diff returns m \ o.
func (m MultiInterval) Diff(o MultiInterval) MultiInterval {
	if o.IsEmpty() || m.IsEmpty() {
		return m
	}
	return m.Intersect(o.Complement())
}

// Complement returns [Inf, Sup] \ m.
func (m MultiInterval) Complement() MultiInterval {
	ivs := make([]Interval, 0, len(m.ivs)+1)
	next := Inf
	for _, iv := range m.ivs {
		if iv.lo > next {
			ivs = append(ivs, New(next, iv.lo-1))
		}
		next = iv.hi + 1
	}
	if next <= Sup {
		ivs = append(ivs, New(next, Sup))
	}
	return normalize(ivs)
}

// Add returns m ∪ {v}.
func (m MultiInterval) Add(v int) MultiInterval {
	if m.Contains(v) {
		return m
	}
	return m.Union(Of(v))
}

// Remove returns m \ {v}.
func (m MultiInterval) Remove(v int) MultiInterval {
	if !m.Contains(v) {
		return m
	}
	return m.Diff(Of(v))
}

// Sum returns {a + b | a in m, b in o}.
func (m MultiInterval) Sum(o MultiInterval) MultiInterval {
	return m.pairwise(o, Interval.Sum)
}

// Sub returns {a - b | a in m, b in o}.
func (m MultiInterval) Sub(o MultiInterval) MultiInterval {
	return m.pairwise(o, Interval.Sub)
}

// Mul returns an over-approximation of {a * b | a in m, b in o}. Products
// of singletons are exact.
func (m MultiInterval) Mul(o MultiInterval) MultiInterval {
	return m.pairwise(o, Interval.Mul)
}

// Div returns an over-approximation of the truncated quotients a / b with
// a in m and b in o \ {0}.
func (m MultiInterval) Div(o MultiInterval) MultiInterval {
	return m.pairwise(o, Interval.Div)
}

func (m MultiInterval) pairwise(o MultiInterval, op func(Interval, Interval) Interval) MultiInterval {
	ivs := make([]Interval, 0, len(m.ivs)*len(o.ivs))
	for _, a := range m.ivs {
		for _, b := range o.ivs {
			ivs = append(ivs, op(a, b))
		}
	}
	return normalize(ivs)
}

// ForEach calls f on every element in ascending order until f returns
// false.
func (m MultiInterval) ForEach(f func(v int) bool) {
	for _, iv := range m.ivs {
		for v := iv.lo; v <= iv.hi; v++ {
			if !f(v) {
				return
			}
		}
	}
}

// Values returns the elements in ascending order. Intended for small sets.
func (m MultiInterval) Values() []int {
	out := make([]int, 0, m.size)
	m.ForEach(func(v int) bool {
		out = append(out, v)
		return true
	})
	return out
}

// String renders the set as "{1..3, 7}".
func (m MultiInterval) String() string {
	parts := make([]string, len(m.ivs))
	for i, iv := range m.ivs {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
