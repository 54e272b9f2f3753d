package clp

import (
	"strings"
)

// Op identifies the kind of an atomic constraint. The set of kinds is
// closed: Solver.step dispatches over all of them and panics on an
// unknown code.
type Op uint8

const (
	// general
	OpEq Op = iota
	OpNeq
	OpIn
	OpNin
	OpOr
	OpNotTest
	OpImpliesTest
	OpForAll

	// integers
	OpLt
	OpLe
	OpSum
	OpProd
	OpInRange
	OpLabel
	OpChooseValue

	// finite sets
	OpSubset
	OpUnion
	OpInters
	OpDiff
	OpDisj
	OpSize
	OpLabelSet
	OpChooseElem

	// binary relations
	OpIsRel
	OpId
	OpInv
	OpDom
	OpRan
	OpComp
	OpCompPair
	OpCompSubset
	OpCompSubsetPair
	OpSubsetComp
	OpPfun
	OpPfunPair

	// intensional sets and extensionality
	OpRisChoose
	OpNeqSet

	opCount
)

var opNames = [opCount]string{
	OpEq:             "eq",
	OpNeq:            "neq",
	OpIn:             "in",
	OpNin:            "nin",
	OpOr:             "or",
	OpNotTest:        "notTest",
	OpImpliesTest:    "impliesTest",
	OpForAll:         "forall",
	OpLt:             "lt",
	OpLe:             "le",
	OpSum:            "sum",
	OpProd:           "prod",
	OpInRange:        "inRange",
	OpLabel:          "label",
	OpChooseValue:    "chooseValue",
	OpSubset:         "subset",
	OpUnion:          "union",
	OpInters:         "inters",
	OpDiff:           "diff",
	OpDisj:           "disj",
	OpSize:           "size",
	OpLabelSet:       "labelSet",
	OpChooseElem:     "chooseElem",
	OpIsRel:          "isRel",
	OpId:             "id",
	OpInv:            "inv",
	OpDom:            "dom",
	OpRan:            "ran",
	OpComp:           "comp",
	OpCompPair:       "compPair",
	OpCompSubset:     "compSubset",
	OpCompSubsetPair: "compSubsetPair",
	OpSubsetComp:     "subsetComp",
	OpPfun:           "pfun",
	OpPfunPair:       "pfunPair",
	OpRisChoose:      "risChoose",
	OpNeqSet:         "neqSet",
}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return "unknown"
}

// Atomic is the smallest unit of constraint: a kind code with up to four
// arguments. solved marks it inert without removing it from the store;
// alternative records which non-deterministic branch the next resumption
// must try.
type Atomic struct {
	op          Op
	args        [4]Term
	solved      bool
	alternative int
}

func newAtomic(op Op, args ...Term) *Atomic {
	if len(args) > 4 {
		panic(contractf(op.String(), "too many arguments (%d)", len(args)))
	}
	a := &Atomic{op: op}
	copy(a.args[:], args)
	return a
}

// Op returns the constraint kind.
func (a *Atomic) Op() Op { return a.op }

// Arg returns the i-th argument (0-based), or nil.
func (a *Atomic) Arg(i int) Term { return a.args[i] }

// Solved reports whether the constraint is inert.
func (a *Atomic) Solved() bool { return a.solved }

// Alternative returns the index of the branch being tried.
func (a *Atomic) Alternative() int { return a.alternative }

// NotFirstCall reports whether the constraint is being resumed after a
// backtrack rather than propagated for the first time.
func (a *Atomic) NotFirstCall() bool { return a.alternative > 0 }

// clone returns a copy that shares the (immutable) arguments.
func (a *Atomic) clone() *Atomic {
	c := *a
	return &c
}

// Equal compares kind and arguments structurally.
func (a *Atomic) Equal(b *Atomic) bool {
	if a.op != b.op {
		return false
	}
	for i := range a.args {
		if !sameTerm(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

func (a *Atomic) String() string {
	var parts []string
	for _, t := range a.args {
		if t == nil {
			break
		}
		parts = append(parts, t.String())
	}
	return a.op.String() + "(" + strings.Join(parts, ", ") + ")"
}
