package clp

import (
	"strings"
)

// Store is the ordered collection of atomic constraints known to a
// solver. Solved atomics stay in place until Trim compacts the store, so
// positions are stable during a propagation sweep.
type Store struct {
	atoms []*Atomic
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Add appends atomics at the end of the store.
func (st *Store) Add(atoms ...*Atomic) {
	st.atoms = append(st.atoms, atoms...)
}

// Insert places atomics at index, shifting the following ones.
func (st *Store) Insert(index int, atoms ...*Atomic) {
	if index < 0 || index > len(st.atoms) {
		panic(contractf("Store.Insert", "index %d out of range [0, %d]", index, len(st.atoms)))
	}
	tail := append([]*Atomic(nil), st.atoms[index:]...)
	st.atoms = append(append(st.atoms[:index], atoms...), tail...)
}

// InsertAfter places atomics right after old, or at the end when old is
// not in the store.
func (st *Store) InsertAfter(old *Atomic, atoms ...*Atomic) {
	i := st.indexOf(old)
	if i < 0 {
		st.Add(atoms...)
		return
	}
	st.Insert(i+1, atoms...)
}

// Rewrite marks old solved and inserts the atomics of conj right after
// it, so that they are propagated before anything posted later.
func (st *Store) Rewrite(old *Atomic, conj ...*Atomic) {
	old.solved = true
	st.InsertAfter(old, conj...)
}

// Replace makes the slot of old hold repl instead.
func (st *Store) Replace(old, repl *Atomic) {
	if i := st.indexOf(old); i >= 0 {
		st.atoms[i] = repl
		return
	}
	st.Add(repl)
}

func (st *Store) indexOf(a *Atomic) int {
	for i, x := range st.atoms {
		if x == a {
			return i
		}
	}
	return -1
}

// IsSolved reports whether every atomic is solved.
func (st *Store) IsSolved() bool {
	for _, a := range st.atoms {
		if !a.solved {
			return false
		}
	}
	return true
}

// Unsolved returns the unsolved atomics in store order.
func (st *Store) Unsolved() []*Atomic {
	var out []*Atomic
	for _, a := range st.atoms {
		if !a.solved {
			out = append(out, a)
		}
	}
	return out
}

// Trim physically removes solved atomics.
func (st *Store) Trim() {
	out := st.atoms[:0]
	for _, a := range st.atoms {
		if !a.solved {
			out = append(out, a)
		}
	}
	for i := len(out); i < len(st.atoms); i++ {
		st.atoms[i] = nil
	}
	st.atoms = out
}

// Clone returns a store holding copies of the unsolved atomics. The copy
// shares no Atomic with st, so later changes to either side are
// invisible to the other.
func (st *Store) Clone() *Store {
	out := &Store{atoms: make([]*Atomic, 0, len(st.atoms))}
	for _, a := range st.atoms {
		if !a.solved {
			out.atoms = append(out.atoms, a.clone())
		}
	}
	return out
}

// Len returns the number of atomics, solved ones included.
func (st *Store) Len() int { return len(st.atoms) }

// At returns the i-th atomic.
func (st *Store) At(i int) *Atomic { return st.atoms[i] }

func (st *Store) String() string {
	var b strings.Builder
	for _, a := range st.atoms {
		if a.solved {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" && ")
		}
		b.WriteString(a.String())
	}
	if b.Len() == 0 {
		return "true"
	}
	return b.String()
}
