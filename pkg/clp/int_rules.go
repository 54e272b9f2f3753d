package clp

import (
	"go.uber.org/zap"

	"github.com/gitrdm/gokanset/pkg/interval"
)

// maxPairwise bounds the number of interval pairs combined by the
// arithmetic rules; larger domains are replaced by their hull first.
const maxPairwise = 64

// intDom returns the domain of t, promoting generic variables to the
// integer sort. ok is false when t cannot denote an integer.
func (s *Solver) intDom(t Term) (dom interval.MultiInterval, ok bool) {
	switch x := s.walk(t).(type) {
	case Int:
		return interval.Of(int(x)), true
	case *Var:
		if !s.promote(x, SortInt) {
			return dom, false
		}
		return s.vars[x.id].dom, true
	default:
		return dom, false
	}
}

// restrictInt intersects the domain of t with dom.
func (s *Solver) restrictInt(t Term, dom interval.MultiInterval) error {
	switch x := s.walk(t).(type) {
	case Int:
		if !dom.Contains(int(x)) {
			return ErrFailure
		}
		return nil
	case *Var:
		if !s.promote(x, SortInt) {
			return ErrFailure
		}
		st := &s.vars[x.id]
		nd := st.dom.Intersect(dom)
		if nd.IsEmpty() {
			return ErrFailure
		}
		if nd.Equal(st.dom) {
			return nil
		}
		st.dom = nd
		if nd.IsSingleton() {
			st.value = Int(nd.Min())
		}
		s.changed()
		return nil
	default:
		return ErrFailure
	}
}

// removeInt removes v from the domain of t.
func (s *Solver) removeInt(t Term, v int) error {
	dom, ok := s.intDom(t)
	if !ok {
		return nil
	}
	if !dom.Contains(v) {
		return nil
	}
	return s.restrictInt(t, dom.Remove(v))
}

func hull(m interval.MultiInterval) interval.MultiInterval {
	if m.IsEmpty() {
		return m
	}
	return interval.Range(m.Min(), m.Max())
}

// arith combines two domains with op, falling back to hulls when the
// pairwise combination would be too large.
func arith(a, b interval.MultiInterval, op func(x, y interval.MultiInterval) interval.MultiInterval) interval.MultiInterval {
	if len(a.Intervals())*len(b.Intervals()) > maxPairwise {
		a, b = hull(a), hull(b)
	}
	return op(a, b)
}

// ltRule handles a < b, or a <= b when orEqual.
func (s *Solver) ltRule(a *Atomic, orEqual bool) error {
	x, y := a.args[0], a.args[1]
	if s.identical(x, y) {
		if orEqual {
			return s.solve(a)
		}
		return ErrFailure
	}
	dx, okX := s.intDom(x)
	dy, okY := s.intDom(y)
	if !okX || !okY {
		return ErrFailure
	}
	gap := 1
	if orEqual {
		gap = 0
	}
	if dx.Max()+gap <= dy.Min() {
		return s.solve(a)
	}
	if err := s.restrictInt(x, interval.Range(interval.Inf, dy.Max()-gap)); err != nil {
		return err
	}
	if err := s.restrictInt(y, interval.Range(dx.Min()+gap, interval.Sup)); err != nil {
		return err
	}
	dx, _ = s.intDom(x)
	dy, _ = s.intDom(y)
	if dx.Max()+gap <= dy.Min() {
		return s.solve(a)
	}
	return nil
}

// sumRule handles z = x + y with bounds propagation in every direction.
func (s *Solver) sumRule(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	dx, okX := s.intDom(x)
	dy, okY := s.intDom(y)
	dz, okZ := s.intDom(z)
	if !okX || !okY || !okZ {
		return ErrFailure
	}
	if err := s.restrictInt(z, arith(dx, dy, interval.MultiInterval.Sum)); err != nil {
		return err
	}
	dz, _ = s.intDom(z)
	if err := s.restrictInt(x, arith(dz, dy, interval.MultiInterval.Sub)); err != nil {
		return err
	}
	dx, _ = s.intDom(x)
	if err := s.restrictInt(y, arith(dz, dx, interval.MultiInterval.Sub)); err != nil {
		return err
	}
	return s.solveIfGround(a, func(vx, vy, vz int) bool { return vx+vy == vz })
}

// prodRule handles z = x * y. Division is only used to narrow a factor
// when the other factor excludes zero.
func (s *Solver) prodRule(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	dx, okX := s.intDom(x)
	dy, okY := s.intDom(y)
	dz, okZ := s.intDom(z)
	if !okX || !okY || !okZ {
		return ErrFailure
	}
	if err := s.restrictInt(z, arith(dx, dy, interval.MultiInterval.Mul)); err != nil {
		return err
	}
	dz, _ = s.intDom(z)
	if !dy.Contains(0) {
		if err := s.restrictInt(x, arith(dz, dy, interval.MultiInterval.Div)); err != nil {
			return err
		}
		dx, _ = s.intDom(x)
	}
	if !dx.Contains(0) {
		if err := s.restrictInt(y, arith(dz, dx, interval.MultiInterval.Div)); err != nil {
			return err
		}
	}
	return s.solveIfGround(a, func(vx, vy, vz int) bool { return vx*vy == vz })
}

// solveIfGround solves a ternary arithmetic constraint once its three
// arguments are bound, failing when check does not hold.
func (s *Solver) solveIfGround(a *Atomic, check func(x, y, z int) bool) error {
	vals := [3]int{}
	for i := range vals {
		v, ok := s.walk(a.args[i]).(Int)
		if !ok {
			return nil
		}
		vals[i] = int(v)
	}
	if !check(vals[0], vals[1], vals[2]) {
		return ErrFailure
	}
	return s.solve(a)
}

func (s *Solver) inRangeRule(a *Atomic) error {
	lo, hi := a.args[1].(Int), a.args[2].(Int)
	if err := s.restrictInt(a.args[0], interval.Range(int(lo), int(hi))); err != nil {
		return err
	}
	return s.solve(a)
}

// labelRule picks a value v for an integer variable x and rewrites
// label(x) into chooseValue(x, v) followed by label(x).
func (s *Solver) labelRule(a *Atomic) error {
	x := s.walk(a.args[0])
	switch x.(type) {
	case Int:
		return s.solve(a)
	case *Var:
	default:
		return contractf("label", "%s is not an integer variable", a.args[0])
	}
	dom, ok := s.intDom(x)
	if !ok {
		return contractf("label", "%s is not an integer variable", a.args[0])
	}
	if dom.IsEmpty() {
		return ErrFailure
	}
	if dom.Min() <= interval.Inf || dom.Max() >= interval.Sup || dom.Size() > labelLimit {
		return contractf("label", "%s has an unbounded domain", a.args[0])
	}
	v := s.pickValue(dom)
	s.logger.Debug("label", zap.Stringer("var", x), zap.Int("value", v))
	return s.rewrite(a, single(OpChooseValue, x, Int(v)), single(OpLabel, x))
}

// chooseValueRule tries x = v, then x != v on backtracking.
func (s *Solver) chooseValueRule(a *Atomic) error {
	x, v := a.args[0], int(a.args[1].(Int))
	dom, ok := s.intDom(x)
	if !ok {
		return ErrFailure
	}
	if dom.IsSingleton() || !dom.Contains(v) {
		return s.solve(a)
	}
	if s.choose(a, 2) == 0 {
		if err := s.restrictInt(x, interval.Of(v)); err != nil {
			return err
		}
	} else if err := s.restrictInt(x, dom.Remove(v)); err != nil {
		return err
	}
	return s.solve(a)
}

// pickValue selects the next value to try from a non-empty domain.
func (s *Solver) pickValue(dom interval.MultiInterval) int {
	switch s.config.ValueHeuristic {
	case ValueMax:
		return dom.Max()
	case ValueMid:
		mid := dom.Min() + (dom.Max()-dom.Min())/2
		best := dom.Min()
		for _, iv := range dom.Intervals() {
			c := min(max(mid, iv.Low()), iv.High())
			if abs(c-mid) < abs(best-mid) {
				best = c
			}
		}
		return best
	case ValueRandom:
		return nth(dom, s.rnd.Intn(dom.Size()))
	default:
		return dom.Min()
	}
}

// nth returns the i-th smallest element of m.
func nth(m interval.MultiInterval, i int) int {
	for _, iv := range m.Intervals() {
		if i < iv.Size() {
			return iv.Low() + i
		}
		i -= iv.Size()
	}
	return m.Max()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
