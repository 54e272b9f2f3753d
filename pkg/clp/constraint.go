package clp

import (
	"strings"
)

// Constraint is an ordered conjunction of atomic constraints. Constraints
// built with the functions of this package are templates: posting one to
// a solver copies its atomics, so the same Constraint may be posted many
// times or embedded in other constraints.
//
// A Constraint is also a Term, so that disjunctions, negation tests,
// universal quantifiers and intensional-set filters can carry it.
type Constraint struct {
	atoms []*Atomic
}

func (*Constraint) isTerm() {}

func single(op Op, args ...Term) *Constraint {
	return &Constraint{atoms: []*Atomic{newAtomic(op, args...)}}
}

// True returns the empty conjunction.
func True() *Constraint { return &Constraint{} }

// And returns the conjunction of c followed by others.
func (c *Constraint) And(others ...*Constraint) *Constraint {
	out := &Constraint{atoms: append([]*Atomic(nil), c.atoms...)}
	for _, o := range others {
		out.atoms = append(out.atoms, o.atoms...)
	}
	return out
}

// And returns the conjunction of cs in order.
func And(cs ...*Constraint) *Constraint {
	return True().And(cs...)
}

// Or returns the disjunction of c and d.
func (c *Constraint) Or(d *Constraint) *Constraint {
	return single(OpOr, c, d)
}

// Or returns the disjunction of cs, tried left to right. Or() is false.
func Or(cs ...*Constraint) *Constraint {
	switch len(cs) {
	case 0:
		return Eq(Int(0), Int(1))
	case 1:
		return cs[0]
	default:
		return cs[0].Or(Or(cs[1:]...))
	}
}

// NotTest succeeds when c is unsatisfiable under the current bindings and
// fails otherwise (negation as failure).
func (c *Constraint) NotTest() *Constraint {
	return single(OpNotTest, c)
}

// NotTest is the function form of Constraint.NotTest.
func NotTest(c *Constraint) *Constraint { return c.NotTest() }

// ImpliesTest requires d whenever c is satisfiable under the current
// bindings; when c is unsatisfiable it holds trivially.
func (c *Constraint) ImpliesTest(d *Constraint) *Constraint {
	return single(OpImpliesTest, c, d)
}

// ImpliesTest is the function form of Constraint.ImpliesTest.
func ImpliesTest(c, d *Constraint) *Constraint { return c.ImpliesTest(d) }

// Atomics returns copies of the atomic constraints in order.
func (c *Constraint) Atomics() []*Atomic {
	out := make([]*Atomic, len(c.atoms))
	for i, a := range c.atoms {
		out[i] = a.clone()
	}
	return out
}

// Len returns the number of atomic constraints.
func (c *Constraint) Len() int { return len(c.atoms) }

// Equal is structural and order-sensitive: same atomics in the same order.
func (c *Constraint) Equal(d *Constraint) bool {
	if c == nil || d == nil {
		return c == d
	}
	if len(c.atoms) != len(d.atoms) {
		return false
	}
	for i := range c.atoms {
		if !c.atoms[i].Equal(d.atoms[i]) {
			return false
		}
	}
	return true
}

// Fail marks every atomic of c solved and returns ErrFailure.
func (c *Constraint) Fail() error {
	for _, a := range c.atoms {
		a.solved = true
	}
	return ErrFailure
}

func (c *Constraint) String() string {
	if len(c.atoms) == 0 {
		return "true"
	}
	parts := make([]string, len(c.atoms))
	for i, a := range c.atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, " && ")
}

// Eq constrains a and b to be equal (unification).
func Eq(a, b Term) *Constraint { return single(OpEq, a, b) }

// Neq constrains a and b to differ.
func Neq(a, b Term) *Constraint { return single(OpNeq, a, b) }

// In constrains e to be an element of the set s.
func In(e, s Term) *Constraint { return single(OpIn, e, s) }

// Nin constrains e not to be an element of the set s.
func Nin(e, s Term) *Constraint { return single(OpNin, e, s) }

// Lt constrains a < b.
func Lt(a, b Term) *Constraint { return single(OpLt, a, b) }

// Le constrains a <= b.
func Le(a, b Term) *Constraint { return single(OpLe, a, b) }

// Gt constrains a > b.
func Gt(a, b Term) *Constraint { return Lt(b, a) }

// Ge constrains a >= b.
func Ge(a, b Term) *Constraint { return Le(b, a) }

// Sum constrains z = x + y.
func Sum(x, y, z Term) *Constraint { return single(OpSum, x, y, z) }

// Prod constrains z = x * y.
func Prod(x, y, z Term) *Constraint { return single(OpProd, x, y, z) }

// InRange constrains lo <= x <= hi.
func InRange(x Term, lo, hi int) *Constraint { return single(OpInRange, x, Int(lo), Int(hi)) }

// Label enumerates values for integer variables.
func Label(vars ...Term) *Constraint {
	c := True()
	for _, v := range vars {
		c.atoms = append(c.atoms, newAtomic(OpLabel, v))
	}
	return c
}

// LabelSet enumerates values for finite-set variables.
func LabelSet(vars ...Term) *Constraint {
	c := True()
	for _, v := range vars {
		c.atoms = append(c.atoms, newAtomic(OpLabelSet, v))
	}
	return c
}

// Subset constrains a ⊆ b.
func Subset(a, b Term) *Constraint { return single(OpSubset, a, b) }

// Union constrains c = a ∪ b.
func Union(a, b, c Term) *Constraint { return single(OpUnion, a, b, c) }

// Inters constrains c = a ∩ b.
func Inters(a, b, c Term) *Constraint { return single(OpInters, a, b, c) }

// Diff constrains c = a \ b.
func Diff(a, b, c Term) *Constraint { return single(OpDiff, a, b, c) }

// Disj constrains a ∩ b = ∅.
func Disj(a, b Term) *Constraint { return single(OpDisj, a, b) }

// Size constrains n to be the cardinality of s.
func Size(s, n Term) *Constraint { return single(OpSize, s, n) }

// IsRel constrains every element of r to be an ordered pair.
func IsRel(r Term) *Constraint { return single(OpIsRel, r) }

// Id constrains r to be the identity relation on a.
func Id(a, r Term) *Constraint { return single(OpId, a, r) }

// Inv constrains s to be the inverse of the relation r.
func Inv(r, s Term) *Constraint { return single(OpInv, r, s) }

// Dom constrains a to be the domain of the relation r.
func Dom(r, a Term) *Constraint { return single(OpDom, r, a) }

// Ran constrains b to be the range of the relation r.
func Ran(r, b Term) *Constraint { return single(OpRan, r, b) }

// Comp constrains t = r ∘ s, the pairs (x, z) such that (x, y) ∈ r and
// (y, z) ∈ s for some y.
func Comp(r, s, t Term) *Constraint { return single(OpComp, r, s, t) }

// CompSubset constrains r ∘ s ⊆ t.
func CompSubset(r, s, t Term) *Constraint { return single(OpCompSubset, r, s, t) }

// SubsetComp constrains t ⊆ r ∘ s.
func SubsetComp(r, s, t Term) *Constraint { return single(OpSubsetComp, r, s, t) }

// Pfun constrains the relation r to be a partial function.
func Pfun(r Term) *Constraint { return single(OpPfun, r) }

// AllDifferent constrains the terms to be pairwise distinct.
func AllDifferent(ts ...Term) *Constraint {
	c := True()
	for i := range ts {
		for j := i + 1; j < len(ts); j++ {
			c.atoms = append(c.atoms, newAtomic(OpNeq, ts[i], ts[j]))
		}
	}
	return c
}

// ForAll constrains body to hold for every element x of the set s. x and
// the dummies are local to body: each element gets fresh copies of them.
func ForAll(x *Var, s Term, body *Constraint, dummies ...*Var) *Constraint {
	locals := make([]Term, len(dummies))
	for i, d := range dummies {
		locals[i] = d
	}
	return single(OpForAll, x, s, body, newSet(locals, nil))
}
