package clp

// cloner copies terms replacing some variables. Every pointer node is
// copied once: repeated occurrences of the same *Set, *Expr, *Ris or
// *Constraint map to the same copy, so aliasing inside the cloned
// structure is preserved.
type cloner struct {
	mapping map[int]Term
	seen    map[Term]Term
}

func newCloner() *cloner {
	return &cloner{mapping: map[int]Term{}, seen: map[Term]Term{}}
}

// freshen maps every variable in vs to a new generic variable of s.
func (c *cloner) freshen(s *Solver, vs []*Var) {
	for _, v := range vs {
		if _, ok := c.mapping[v.id]; !ok {
			c.mapping[v.id] = s.fresh(SortAny)
		}
	}
}

func (c *cloner) term(t Term) Term {
	switch x := t.(type) {
	case nil:
		return nil
	case *Var:
		if r, ok := c.mapping[x.id]; ok {
			return r
		}
		return x
	case Pair:
		return Pair{First: c.term(x.First), Second: c.term(x.Second)}
	case *Set:
		if r, ok := c.seen[x]; ok {
			return r
		}
		out := &Set{elems: make([]Term, len(x.elems))}
		c.seen[x] = out
		for i, e := range x.elems {
			out.elems[i] = c.term(e)
		}
		out.tail = c.term(x.tail)
		return out
	case *Expr:
		if r, ok := c.seen[x]; ok {
			return r
		}
		out := &Expr{op: x.op}
		c.seen[x] = out
		out.a, out.b = c.term(x.a), c.term(x.b)
		return out
	case *Ris:
		if r, ok := c.seen[x]; ok {
			return r
		}
		out := &Ris{}
		c.seen[x] = out
		out.control = c.term(x.control)
		out.domain = c.term(x.domain)
		out.filter = c.constraint(x.filter)
		out.pattern = c.term(x.pattern)
		out.dummies = make([]*Var, len(x.dummies))
		for i, d := range x.dummies {
			out.dummies[i] = d
			if r, ok := c.mapping[d.id].(*Var); ok {
				out.dummies[i] = r
			}
		}
		return out
	case *Constraint:
		return c.constraint(x)
	default:
		return t
	}
}

func (c *cloner) constraint(x *Constraint) *Constraint {
	if x == nil {
		return nil
	}
	if r, ok := c.seen[x]; ok {
		return r.(*Constraint)
	}
	out := &Constraint{atoms: make([]*Atomic, len(x.atoms))}
	c.seen[x] = out
	for i, a := range x.atoms {
		cp := &Atomic{op: a.op}
		for j, arg := range a.args {
			cp.args[j] = c.term(arg)
		}
		out.atoms[i] = cp
	}
	return out
}

// explorer visits the variables reachable from terms, following
// bindings without modifying the arena. Each node is visited once.
type explorer struct {
	s       *Solver
	visited map[Term]bool
	seen    map[int]bool
	vars    []*Var

	// shallow skips the bodies of constraints carried as terms and the
	// local parts (control, filter, pattern) of intensional sets.
	shallow bool
}

func newExplorer(s *Solver, shallow bool) *explorer {
	return &explorer{s: s, visited: map[Term]bool{}, seen: map[int]bool{}, shallow: shallow}
}

func (e *explorer) visit(t Term) {
	switch x := t.(type) {
	case *Var:
		r := e.s.peekRoot(x)
		if val := e.s.vars[r.id].value; val != nil {
			if e.visited[r] {
				return
			}
			e.visited[r] = true
			e.visit(val)
			return
		}
		if !e.seen[r.id] {
			e.seen[r.id] = true
			e.vars = append(e.vars, r)
		}
	case Pair:
		e.visit(x.First)
		e.visit(x.Second)
	case *Set:
		if e.visited[x] {
			return
		}
		e.visited[x] = true
		for _, el := range x.elems {
			e.visit(el)
		}
		if x.tail != nil {
			e.visit(x.tail)
		}
	case *Expr:
		if e.visited[x] {
			return
		}
		e.visited[x] = true
		e.visit(x.a)
		e.visit(x.b)
	case *Ris:
		if e.visited[x] {
			return
		}
		e.visited[x] = true
		e.visit(x.domain)
		if e.shallow {
			return
		}
		e.visit(x.control)
		e.visitConstraint(x.filter)
		e.visit(x.pattern)
		for _, d := range x.dummies {
			e.visit(d)
		}
	case *Constraint:
		if !e.shallow {
			e.visitConstraint(x)
		}
	}
}

func (e *explorer) visitConstraint(c *Constraint) {
	if c == nil || e.visited[c] {
		return
	}
	e.visited[c] = true
	for _, a := range c.atoms {
		e.visitAtomic(a)
	}
}

func (e *explorer) visitAtomic(a *Atomic) {
	for _, arg := range a.args {
		if arg != nil {
			e.visit(arg)
		}
	}
}

// varsOf returns the unbound root variables reachable from ts, in order
// of first occurrence.
func (s *Solver) varsOf(ts ...Term) []*Var {
	e := newExplorer(s, false)
	for _, t := range ts {
		if t != nil {
			e.visit(t)
		}
	}
	return e.vars
}

// occurs reports whether the unbound root v occurs in t.
func (s *Solver) occurs(v *Var, t Term) bool {
	root := s.peekRoot(v)
	for _, w := range s.varsOf(t) {
		if w == root {
			return true
		}
	}
	return false
}
