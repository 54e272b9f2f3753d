package clp

import (
	"fmt"

	"github.com/gitrdm/gokanset/pkg/interval"
)

// Sort classifies logical variables.
type Sort uint8

const (
	// SortAny variables may be bound to any term.
	SortAny Sort = iota
	// SortInt variables range over integers and carry a domain.
	SortInt
	// SortSet variables range over finite sets of integers and carry a
	// [glb, lub] domain bracket.
	SortSet
)

func (s Sort) String() string {
	switch s {
	case SortAny:
		return "any"
	case SortInt:
		return "int"
	case SortSet:
		return "set"
	default:
		return "unknown"
	}
}

// Var is a handle on a logical variable. The variable's binding and
// domain live in the arena of the Solver that created it; a Var must only
// be used with that solver (or with forks of it).
type Var struct {
	id   int
	name string
}

func (*Var) isTerm() {}

// ID returns the arena index of the variable.
func (v *Var) ID() int { return v.id }

// Name returns the variable's name, which may be empty.
func (v *Var) Name() string { return v.name }

// String returns the name, or "_N<id>" for anonymous variables.
func (v *Var) String() string {
	if v.name != "" {
		return v.name
	}
	return fmt.Sprintf("_N%d", v.id)
}

// varState is the arena entry of a variable. Only roots of an
// equivalence class hold meaningful sort, value and domain fields.
type varState struct {
	parent int // -1 for a root
	sort   Sort
	value  Term // non-nil once a root is bound to a non-variable term

	dom      interval.MultiInterval // SortInt
	glb, lub interval.MultiInterval // SortSet
}

// newVar registers a variable in the arena. Variables created while
// choice points exist are added to every snapshot so that restoring an
// older state does not forget them.
func (s *Solver) newVar(name string, st varState) *Var {
	st.parent = -1
	v := &Var{id: len(s.vars), name: name}
	s.vars = append(s.vars, st)
	s.handles = append(s.handles, v)
	s.updateAlternativesVars(st)
	return v
}

// NewVar creates an unbound generic variable.
func (s *Solver) NewVar(name string) *Var {
	return s.newVar(name, varState{sort: SortAny})
}

// NewIntVar creates an integer variable with the given domain. An empty
// domain is a contract violation.
func (s *Solver) NewIntVar(name string, dom interval.MultiInterval) *Var {
	if dom.IsEmpty() {
		panic(contractf("NewIntVar", "variable %q has an empty domain", name))
	}
	st := varState{sort: SortInt, dom: dom}
	if dom.IsSingleton() {
		st.value = Int(dom.Min())
	}
	return s.newVar(name, st)
}

// NewSetVar creates a finite-set variable whose value is any subset of lub.
func (s *Solver) NewSetVar(name string, lub interval.MultiInterval) *Var {
	return s.NewSetVarBounds(name, interval.Empty(), lub)
}

// NewSetVarBounds creates a finite-set variable with the bracket
// [glb, lub]. glb must be a subset of lub.
func (s *Solver) NewSetVarBounds(name string, glb, lub interval.MultiInterval) *Var {
	if !glb.Subset(lub) {
		panic(contractf("NewSetVarBounds", "variable %q: glb %v is not a subset of lub %v", name, glb, lub))
	}
	st := varState{sort: SortSet, glb: glb, lub: lub}
	if glb.Equal(lub) {
		st.value = setFromInts(glb)
	}
	return s.newVar(name, st)
}

// fresh creates an anonymous variable of the given sort with the widest
// domain for that sort.
func (s *Solver) fresh(sort Sort) *Var {
	st := varState{sort: sort}
	switch sort {
	case SortInt:
		st.dom = interval.Universe()
	case SortSet:
		st.lub = interval.Universe()
	}
	return s.newVar("", st)
}

// state returns the arena entry of v, checking that v belongs to s.
func (s *Solver) state(v *Var) *varState {
	if v.id < 0 || v.id >= len(s.vars) || s.handles[v.id] != v {
		panic(contractf("var", "variable %s does not belong to this solver", v))
	}
	return &s.vars[v.id]
}

// find returns the root of v's equivalence class, compressing the path.
func (s *Solver) find(v *Var) *Var {
	s.state(v)
	root := v.id
	for s.vars[root].parent >= 0 {
		root = s.vars[root].parent
	}
	for id := v.id; id != root; {
		next := s.vars[id].parent
		s.vars[id].parent = root
		id = next
	}
	return s.handles[root]
}

// peekRoot returns the root of v's class without modifying the arena.
func (s *Solver) peekRoot(v *Var) *Var {
	s.state(v)
	id := v.id
	for s.vars[id].parent >= 0 {
		id = s.vars[id].parent
	}
	return s.handles[id]
}

// walk dereferences t through equivalence chains and bindings. The result
// is either an unbound root variable or a non-variable term.
func (s *Solver) walk(t Term) Term {
	v, ok := t.(*Var)
	if !ok {
		return t
	}
	r := s.find(v)
	if val := s.vars[r.id].value; val != nil {
		return val
	}
	return r
}

// peek is the read-only counterpart of walk.
func (s *Solver) peek(t Term) Term {
	v, ok := t.(*Var)
	if !ok {
		return t
	}
	r := s.peekRoot(v)
	if val := s.vars[r.id].value; val != nil {
		return val
	}
	return r
}

// sortOf returns the sort of the root of v.
func (s *Solver) sortOf(v *Var) Sort {
	return s.vars[s.find(v).id].sort
}

// link merges the classes of the unbound roots a and b, intersecting
// their domains. It fails on incompatible sorts or empty domains.
func (s *Solver) link(a, b *Var) error {
	a, b = s.find(a), s.find(b)
	if a == b {
		return nil
	}
	sa, sb := &s.vars[a.id], &s.vars[b.id]
	// Keep the more specific sort at the root.
	if sa.sort != SortAny && sb.sort == SortAny {
		a, b = b, a
		sa, sb = sb, sa
	}
	switch {
	case sa.sort == SortAny:
		// nothing to merge
	case sa.sort != sb.sort:
		return ErrFailure
	case sa.sort == SortInt:
		dom := sa.dom.Intersect(sb.dom)
		if dom.IsEmpty() {
			return ErrFailure
		}
		sb.dom = dom
		if dom.IsSingleton() {
			sb.value = Int(dom.Min())
		}
	case sa.sort == SortSet:
		glb, lub := sa.glb.Union(sb.glb), sa.lub.Intersect(sb.lub)
		if !glb.Subset(lub) {
			return ErrFailure
		}
		sb.glb, sb.lub = glb, lub
		if glb.Equal(lub) {
			sb.value = setFromInts(glb)
		}
	}
	sa.parent = b.id
	s.changed()
	return nil
}

// bindAny binds the unbound generic root v to the non-variable term t.
func (s *Solver) bindAny(v *Var, t Term) {
	st := &s.vars[s.find(v).id]
	st.value = t
	s.changed()
}

// promote turns an unbound generic root into an integer or set variable
// with the widest domain. It is a no-op for variables already of sort.
func (s *Solver) promote(v *Var, sort Sort) bool {
	st := &s.vars[s.find(v).id]
	if st.sort == sort {
		return true
	}
	if st.sort != SortAny || st.value != nil {
		return false
	}
	st.sort = sort
	switch sort {
	case SortInt:
		st.dom = interval.Universe()
	case SortSet:
		st.glb, st.lub = interval.Empty(), interval.Universe()
	}
	s.changed()
	return true
}

// IsBound reports whether t denotes a term with no unbound variable at
// its top level.
func (s *Solver) IsBound(t Term) bool {
	_, unbound := s.peek(t).(*Var)
	return !unbound
}

// Domain returns the current domain of an integer variable.
func (s *Solver) Domain(v *Var) (interval.MultiInterval, error) {
	r := s.peekRoot(v)
	st := s.vars[r.id]
	if st.sort != SortInt {
		return interval.MultiInterval{}, contractf("Domain", "%s is not an integer variable", v)
	}
	return st.dom, nil
}

// SetBounds returns the current [glb, lub] bracket of a set variable.
func (s *Solver) SetBounds(v *Var) (glb, lub interval.MultiInterval, err error) {
	r := s.peekRoot(v)
	st := s.vars[r.id]
	if st.sort != SortSet {
		return glb, lub, contractf("SetBounds", "%s is not a set variable", v)
	}
	return st.glb, st.lub, nil
}

// IntValue returns the integer v is bound to. Asking for the value of an
// unbound or non-integer variable is a contract violation.
func (s *Solver) IntValue(v *Var) (int, error) {
	switch t := s.peek(v).(type) {
	case Int:
		return int(t), nil
	case *Var:
		return 0, contractf("IntValue", "%s is not bound", v)
	default:
		return 0, contractf("IntValue", "%s is bound to non-integer %s", v, t)
	}
}
