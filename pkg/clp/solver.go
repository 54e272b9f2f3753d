package clp

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"pgregory.net/rand"
)

// Solver owns logical variables, a constraint store and a stack of choice
// points. Search interleaves propagation to a fixpoint with chronological
// backtracking: a rule that finds an inconsistency raises ErrFailure, the
// solver restores the most recent choice point and resumes the constraint
// that opened it with its next alternative.
//
// Thread safety: a Solver is not safe for concurrent use. Independent
// solvers may run in parallel.
type Solver struct {
	// vars is the arena of variable states; handles maps arena indices
	// back to the Var handles given out.
	vars    []varState
	handles []*Var

	store   *Store
	choices []*choicePoint

	// progress is bumped by every binding, narrowing, insertion or
	// solved mark; a sweep that leaves it unchanged is a fixpoint.
	progress int
	steps    int

	config *Config
	logger *zap.Logger
	tracer Tracer
	stats  Stats
	rnd    *rand.Rand

	// risCache memoizes the expansion of single RIS elements. It is
	// shared with forks and never snapshotted: keys carry the values of
	// every outside variable, so entries stay valid on every branch.
	risCache *lru.Cache[string, *Set]

	ctx context.Context
}

// NewSolver creates a solver with DefaultConfig.
func NewSolver() *Solver {
	s, err := NewSolverWithConfig(DefaultConfig())
	if err != nil {
		panic(err) // the default configuration is valid
	}
	return s
}

// NewSolverWithConfig creates a solver with a custom configuration. An
// unsupported heuristic is reported as a *ContractError.
func NewSolverWithConfig(config *Config) (*Solver, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		store:  NewStore(),
		config: config,
		logger: zap.NewNop(),
		rnd:    rand.New(config.RandomSeed),
		ctx:    context.Background(),
	}
	if config.RisCacheSize > 0 {
		cache, err := lru.New[string, *Set](config.RisCacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating RIS cache: %w", err)
		}
		s.risCache = cache
	}
	return s, nil
}

// SetLogger installs a logger for search events. A nil logger disables
// logging.
func (s *Solver) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
}

// SetTracer installs a search tracer; nil removes it.
func (s *Solver) SetTracer(t Tracer) {
	s.tracer = t
}

// Config returns the solver configuration.
func (s *Solver) Config() *Config { return s.config }

// Add posts c to the store. When choice points exist, c is also added to
// each of them, so it keeps holding after backtracking.
func (s *Solver) Add(c *Constraint) {
	atoms := c.Atomics()
	s.store.Add(atoms...)
	s.updateAlternativesStores(atoms)
	s.changed()
}

// Solve posts c and searches for a solution. It returns ErrUnsatisfiable
// when no solution exists, ErrStepLimit when Config.MaxSteps is exceeded
// and the context error when ctx is done.
func (s *Solver) Solve(ctx context.Context, c *Constraint) error {
	s.Add(c)
	return s.run(ctx)
}

// NextSolution resumes the search from the most recent choice point.
func (s *Solver) NextSolution(ctx context.Context) error {
	if err := s.backtrack(); err != nil {
		return ErrUnsatisfiable
	}
	return s.run(ctx)
}

// Check reports whether c is satisfiable together with the current store.
// The solver itself is left untouched.
func (s *Solver) Check(ctx context.Context, c *Constraint) (bool, error) {
	f := s.fork(true)
	err := f.Solve(ctx, c)
	return satisfiable(err)
}

// Test reports whether the current store is satisfiable, without
// modifying the solver.
func (s *Solver) Test(ctx context.Context) (bool, error) {
	f := s.fork(true)
	return satisfiable(f.run(ctx))
}

func satisfiable(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnsatisfiable):
		return false, nil
	default:
		return false, err
	}
}

// Setof collects the values t takes in all solutions of c together with
// the current store. The result is a closed set without duplicates; ground
// values are sorted.
func (s *Solver) Setof(ctx context.Context, t Term, c *Constraint) (*Set, error) {
	f := s.fork(true)
	var (
		values []Term
		seen   = map[string]bool{}
	)
	err := f.Solve(ctx, c)
	for err == nil {
		v := f.resolve(t)
		key := v.String()
		if f.isGround(v) {
			key = canonical(v)
		}
		if !seen[key] {
			seen[key] = true
			values = append(values, v)
		}
		err = f.NextSolution(ctx)
	}
	if !errors.Is(err, ErrUnsatisfiable) {
		return nil, err
	}
	if slices.IndexFunc(values, func(v Term) bool { return !f.isGround(v) }) < 0 {
		values = normalizeElems(values)
	}
	return newSet(values, nil), nil
}

// Residual returns the irreducible constraints left in the store after
// the last successful search.
func (s *Solver) Residual() *Constraint {
	return &Constraint{atoms: s.store.Clone().atoms}
}

// Store returns the live constraint store.
func (s *Solver) Store() *Store { return s.store }

// fork returns a disposable copy of s. The copy shares the configuration,
// the logger and the RIS cache; withStore selects whether it starts from
// a copy of the store or from an empty one. Choice points are not copied,
// so a fork can never backtrack into its parent's alternatives.
func (s *Solver) fork(withStore bool) *Solver {
	f := &Solver{
		vars:     slices.Clone(s.vars),
		handles:  slices.Clone(s.handles),
		store:    NewStore(),
		config:   s.config,
		logger:   s.logger,
		rnd:      s.rnd,
		risCache: s.risCache,
		ctx:      s.ctx,
	}
	if withStore {
		f.store = s.store.Clone()
	}
	s.stats.Forks++
	return f
}

// run propagates and backtracks until a solution is found or the choice
// points are exhausted.
func (s *Solver) run(ctx context.Context) error {
	s.ctx = ctx
	s.steps = 0
	for {
		err := s.propagate(ctx)
		if err == nil {
			s.stats.Solutions++
			s.logger.Debug("solution", zap.Int("depth", len(s.choices)), zap.Stringer("residual", s.store))
			if s.tracer != nil {
				s.tracer.Trace(Event{Kind: EventSolution, Depth: len(s.choices)})
			}
			return nil
		}
		if !IsFailure(err) {
			return err
		}
		if s.backtrack() != nil {
			return ErrUnsatisfiable
		}
	}
}

// propagate sweeps the store until no rule makes progress, then runs the
// fixpoint passes: inequality rewriting, forced RIS expansion and final
// labeling. Atomics inserted during a sweep are visited in the same sweep.
func (s *Solver) propagate(ctx context.Context) error {
	for {
		s.store.Trim()
		start := s.progress
		for i := 0; i < s.store.Len(); i++ {
			a := s.store.At(i)
			if a.solved {
				continue
			}
			s.steps++
			s.stats.Steps++
			if s.config.MaxSteps > 0 && s.steps > s.config.MaxSteps {
				return ErrStepLimit
			}
			if s.steps%256 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := s.step(a); err != nil {
				return err
			}
		}
		if s.progress != start {
			continue
		}

		if ok, err := s.removeNeqs(); err != nil || ok {
			if err != nil {
				return err
			}
			continue
		}
		if ok, err := s.forceExpansion(); err != nil || ok {
			if err != nil {
				return err
			}
			continue
		}
		if s.config.FinalLabeling {
			if ok, err := s.finalLabeling(); err != nil || ok {
				if err != nil {
					return err
				}
				continue
			}
		}
		return nil
	}
}

// step propagates a single atomic constraint.
func (s *Solver) step(a *Atomic) error {
	if err := s.flattenArgs(a); err != nil {
		return err
	}
	switch a.op {
	case OpEq:
		return s.eqRule(a)
	case OpNeq:
		return s.neqRule(a)
	case OpIn:
		return s.inRule(a)
	case OpNin:
		return s.ninRule(a)
	case OpOr:
		return s.orRule(a)
	case OpNotTest:
		return s.notTestRule(a)
	case OpImpliesTest:
		return s.impliesTestRule(a)
	case OpForAll:
		return s.forAllRule(a)

	case OpLt:
		return s.ltRule(a, false)
	case OpLe:
		return s.ltRule(a, true)
	case OpSum:
		return s.sumRule(a)
	case OpProd:
		return s.prodRule(a)
	case OpInRange:
		return s.inRangeRule(a)
	case OpLabel:
		return s.labelRule(a)
	case OpChooseValue:
		return s.chooseValueRule(a)

	case OpSubset, OpUnion, OpInters, OpDiff, OpDisj, OpSize:
		return s.setRule(a)
	case OpLabelSet:
		return s.labelSetRule(a)
	case OpChooseElem:
		return s.chooseElemRule(a)

	case OpIsRel:
		return s.isRelRule(a)
	case OpId:
		return s.idRule(a)
	case OpInv:
		return s.invRule(a)
	case OpDom:
		return s.domRanRule(a, true)
	case OpRan:
		return s.domRanRule(a, false)
	case OpComp:
		return s.compRule(a)
	case OpCompPair:
		return s.compPairRule(a)
	case OpCompSubset:
		return s.compSubsetRule(a)
	case OpCompSubsetPair:
		return s.compSubsetPairRule(a)
	case OpSubsetComp:
		return s.subsetCompRule(a)
	case OpPfun:
		return s.pfunRule(a)
	case OpPfunPair:
		return s.pfunPairRule(a)

	case OpRisChoose:
		return s.risChooseRule(a)
	case OpNeqSet:
		return s.neqSetRule(a)
	default:
		panic(contractf("step", "unknown constraint kind %d", a.op))
	}
}

// changed records that the state moved forward.
func (s *Solver) changed() { s.progress++ }

// solve marks a as solved.
func (s *Solver) solve(a *Atomic) error {
	a.solved = true
	s.changed()
	return nil
}

// rewrite replaces a by the conjunction of cs, placed right after it.
func (s *Solver) rewrite(a *Atomic, cs ...*Constraint) error {
	s.store.Rewrite(a, joinAtoms(cs)...)
	s.changed()
	return nil
}

// post inserts the conjunction of cs right after a, leaving a pending.
func (s *Solver) post(a *Atomic, cs ...*Constraint) {
	s.store.InsertAfter(a, joinAtoms(cs)...)
	s.changed()
}

func joinAtoms(cs []*Constraint) []*Atomic {
	var atoms []*Atomic
	for _, c := range cs {
		atoms = append(atoms, c.Atomics()...)
	}
	return atoms
}
