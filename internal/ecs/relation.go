package ecs

import "encoding/binary"

// Symbol names a query variable bound to entity ids within a Relation.
type Symbol string

// Relation is an ordered list of distinct symbols plus one row of bound
// entity ids per match. Relations are the intermediate values threaded
// through a query pipeline; clauses consume and replace the running relation.
//
// An uninitialized relation (no clause has produced data yet) is distinct
// from an initialized-but-empty one: the former means "unconstrained", the
// latter means "no rows match".
type Relation struct {
	symbols     []Symbol
	index       map[Symbol]int
	rows        [][]uint32
	initialized bool
}

// NewRelation creates an initialized relation from symbols and rows. Symbols
// must be distinct; rows must all have len(symbols) columns.
func NewRelation(symbols []Symbol, rows [][]uint32) *Relation {
	r := &Relation{
		symbols:     symbols,
		index:       make(map[Symbol]int, len(symbols)),
		rows:        rows,
		initialized: true,
	}
	for i, s := range symbols {
		r.index[s] = i
	}
	return r
}

// EmptyRelation creates an initialized relation with the given symbols and no
// rows.
func EmptyRelation(symbols ...Symbol) *Relation {
	return NewRelation(symbols, nil)
}

// Symbols returns the relation's symbols in column order.
func (r *Relation) Symbols() []Symbol {
	out := make([]Symbol, len(r.symbols))
	copy(out, r.symbols)
	return out
}

// IsEmpty reports whether the relation holds no rows.
func (r *Relation) IsEmpty() bool { return len(r.rows) == 0 }

// IsUninitialized reports whether no clause has produced data yet.
func (r *Relation) IsUninitialized() bool { return !r.initialized }

// Rows returns the relation's raw rows.
func (r *Relation) Rows() [][]uint32 { return r.rows }

// Tuples projects the rows onto the given symbols, or returns the full rows
// when none are given. Projection onto an unknown symbol yields no tuples.
func (r *Relation) Tuples(symbols ...Symbol) [][]uint32 {
	if len(symbols) == 0 {
		out := make([][]uint32, len(r.rows))
		for i, row := range r.rows {
			out[i] = append([]uint32(nil), row...)
		}
		return out
	}

	cols := make([]int, len(symbols))
	for i, s := range symbols {
		col, ok := r.index[s]
		if !ok {
			return nil
		}
		cols[i] = col
	}

	out := make([][]uint32, len(r.rows))
	for i, row := range r.rows {
		tuple := make([]uint32, len(cols))
		for j, col := range cols {
			tuple[j] = row[col]
		}
		out[i] = tuple
	}
	return out
}

// Copy returns a deep copy of the relation.
func (r *Relation) Copy() *Relation {
	rows := make([][]uint32, len(r.rows))
	for i, row := range r.rows {
		rows[i] = append([]uint32(nil), row...)
	}
	return NewRelation(r.Symbols(), rows)
}

// Unify merges two relations. Relations sharing symbols are combined with a
// hash-join on the shared columns; disjoint relations are combined with a
// cross-merge (Cartesian product). If either side is empty the result is
// empty, which lets pipelines short-circuit.
func (r *Relation) Unify(other *Relation) *Relation {
	if r.IsEmpty() || other.IsEmpty() {
		return EmptyRelation()
	}

	var shared []Symbol
	for _, s := range r.symbols {
		if _, ok := other.index[s]; ok {
			shared = append(shared, s)
		}
	}

	if len(shared) == 0 {
		return r.crossMerge(other)
	}
	return r.hashJoin(other, shared)
}

// crossMerge is the Cartesian product of the two relations' rows with symbol
// lists concatenated. Cost is O(|R|*|S|).
func (r *Relation) crossMerge(other *Relation) *Relation {
	symbols := append(r.Symbols(), other.symbols...)
	rows := make([][]uint32, 0, len(r.rows)*len(other.rows))
	for _, left := range r.rows {
		for _, right := range other.rows {
			row := make([]uint32, 0, len(left)+len(right))
			row = append(row, left...)
			row = append(row, right...)
			rows = append(rows, row)
		}
	}
	return NewRelation(symbols, rows)
}

// hashJoin is an equi-join on the shared symbols: the other relation's rows
// are bucketed by their shared-column values, then each of this relation's
// rows probes the buckets. Cost is O(|R|+|S|) plus output size.
func (r *Relation) hashJoin(other *Relation, shared []Symbol) *Relation {
	leftCols := make([]int, len(shared))
	rightCols := make([]int, len(shared))
	for i, s := range shared {
		leftCols[i] = r.index[s]
		rightCols[i] = other.index[s]
	}

	var extraSymbols []Symbol
	var extraCols []int
	for i, s := range other.symbols {
		if _, ok := r.index[s]; !ok {
			extraSymbols = append(extraSymbols, s)
			extraCols = append(extraCols, i)
		}
	}

	buckets := make(map[string][]int, len(other.rows))
	for i, row := range other.rows {
		key := joinKey(row, rightCols)
		buckets[key] = append(buckets[key], i)
	}

	symbols := append(r.Symbols(), extraSymbols...)
	var rows [][]uint32
	for _, left := range r.rows {
		for _, matchIdx := range buckets[joinKey(left, leftCols)] {
			right := other.rows[matchIdx]
			row := make([]uint32, 0, len(left)+len(extraCols))
			row = append(row, left...)
			for _, col := range extraCols {
				row = append(row, right[col])
			}
			rows = append(rows, row)
		}
	}
	return NewRelation(symbols, rows)
}

func joinKey(row []uint32, cols []int) string {
	buf := make([]byte, 0, 4*len(cols))
	for _, col := range cols {
		buf = binary.LittleEndian.AppendUint32(buf, row[col])
	}
	return string(buf)
}
