package ecs

import (
	"errors"
	"fmt"
)

// QueryContext carries the running relation through a clause pipeline.
type QueryContext struct {
	World *World
	// Relation is the running relation, nil until a binding clause runs.
	Relation *Relation
}

// Clause narrows or extends the running relation. Execution is strictly
// left-to-right; there is no planner or reordering.
type Clause func(ctx *QueryContext) (*Relation, error)

// FromFn binds variables to tuples produced from the world alone.
type FromFn func(w *World) [][]uint32

// GetFn binds variables to tuples produced with access to the running
// relation.
type GetFn func(ctx *QueryContext) [][]uint32

// FilterFn decides whether a row survives a Filter clause. It receives the
// entities bound to the clause's variables, in order.
type FilterFn func(gameobjects ...*GameObject) bool

// With binds variable to every entity possessing all listed component types.
// When a relation is already running, the new binding is unified with it, so
// repeating a variable intersects.
func With(variable Symbol, componentIDs ...ComponentID) Clause {
	return func(ctx *QueryContext) (*Relation, error) {
		uids := ctx.World.components.entitiesWith(componentIDs...)
		rows := make([][]uint32, len(uids))
		for i, uid := range uids {
			rows[i] = []uint32{uid}
		}
		return mergeIntoContext(ctx, NewRelation([]Symbol{variable}, rows))
	}
}

// From binds variables to the tuples returned by fn. This is the escape hatch
// for criteria the component store cannot express directly, such as entities
// reachable through relationships.
func From(fn FromFn, variables ...Symbol) Clause {
	return func(ctx *QueryContext) (*Relation, error) {
		return mergeRows(ctx, fn(ctx.World), variables)
	}
}

// GetClause is From with access to the running relation, usable mid-pipeline.
func GetClause(fn GetFn, variables ...Symbol) Clause {
	return func(ctx *QueryContext) (*Relation, error) {
		return mergeRows(ctx, fn(ctx), variables)
	}
}

// Filter keeps only the existing rows for which pred holds. It is evaluated
// once per row and never re-queries the store. Filtering before any binding
// clause is a pipeline error.
func Filter(pred FilterFn, variables ...Symbol) Clause {
	return func(ctx *QueryContext) (*Relation, error) {
		if ctx.Relation == nil {
			return nil, errors.New("filter clause requires a bound relation")
		}
		rel := ctx.Relation

		cols := make([]int, len(variables))
		for i, v := range variables {
			col, ok := rel.index[v]
			if !ok {
				return nil, fmt.Errorf("filter clause references unbound variable %q", v)
			}
			cols[i] = col
		}

		var rows [][]uint32
		for _, row := range rel.rows {
			args := make([]*GameObject, len(cols))
			for i, col := range cols {
				g, err := ctx.World.GetGameObject(row[col])
				if err != nil {
					return nil, err
				}
				args[i] = g
			}
			if pred(args...) {
				rows = append(rows, row)
			}
		}
		return NewRelation(rel.Symbols(), rows), nil
	}
}

// Not removes the running relation's rows that match the inner clause. The
// inner clause runs against a fresh context; rows are matched on the symbols
// shared with the running relation.
func Not(clause Clause) Clause {
	return func(ctx *QueryContext) (*Relation, error) {
		if ctx.Relation == nil {
			return nil, errors.New("not clause requires a bound relation")
		}
		rel := ctx.Relation

		inner, err := clause(&QueryContext{World: ctx.World})
		if err != nil {
			return nil, err
		}
		if inner.IsEmpty() {
			return rel.Copy(), nil
		}

		var leftCols, rightCols []int
		for _, s := range rel.symbols {
			if col, ok := inner.index[s]; ok {
				leftCols = append(leftCols, rel.index[s])
				rightCols = append(rightCols, col)
			}
		}
		if len(leftCols) == 0 {
			return rel.Copy(), nil
		}

		exclude := make(map[string]bool, len(inner.rows))
		for _, row := range inner.rows {
			exclude[joinKey(row, rightCols)] = true
		}

		var rows [][]uint32
		for _, row := range rel.rows {
			if !exclude[joinKey(row, leftCols)] {
				rows = append(rows, row)
			}
		}
		return NewRelation(rel.Symbols(), rows), nil
	}
}

func mergeRows(ctx *QueryContext, tuples [][]uint32, variables []Symbol) (*Relation, error) {
	if len(tuples) == 0 {
		return EmptyRelation(), nil
	}
	for _, tuple := range tuples {
		if len(tuple) != len(variables) {
			return nil, fmt.Errorf("binder produced %d columns for %d variables",
				len(tuple), len(variables))
		}
	}
	return mergeIntoContext(ctx, NewRelation(variables, tuples))
}

func mergeIntoContext(ctx *QueryContext, rel *Relation) (*Relation, error) {
	if ctx.Relation == nil {
		return rel, nil
	}
	return ctx.Relation.Unify(rel), nil
}

// Query selects tuples of entity ids satisfying a compound clause pipeline.
type Query struct {
	symbols []Symbol
	clauses []Clause
}

// Execute runs the pipeline unconstrained and returns one tuple of entity
// ids per match, projected onto the query's output symbols. No matches is an
// empty result, never an error; errors signal a malformed pipeline or a
// dangling entity reference.
func (q *Query) Execute(w *World) ([][]uint32, error) {
	return q.run(&QueryContext{World: w})
}

// ExecuteWith seeds the pipeline with explicit bindings of output symbols to
// entity ids, to test whether specific entities satisfy the whole pipeline.
func (q *Query) ExecuteWith(w *World, bindings map[Symbol]uint32) ([][]uint32, error) {
	ctx := &QueryContext{World: w}

	if len(bindings) > 0 {
		var symbols []Symbol
		var row []uint32
		for _, s := range q.symbols {
			if uid, ok := bindings[s]; ok {
				symbols = append(symbols, s)
				row = append(row, uid)
			}
		}
		if len(symbols) != len(bindings) {
			return nil, fmt.Errorf("bindings reference symbols outside the query outputs %v", q.symbols)
		}
		ctx.Relation = NewRelation(symbols, [][]uint32{row})
	}

	return q.run(ctx)
}

// Check reports whether the given entities, bound positionally to the output
// symbols, satisfy the pipeline.
func (q *Query) Check(w *World, uids ...uint32) (bool, error) {
	if len(uids) != len(q.symbols) {
		return false, fmt.Errorf("expected %d entity ids, got %d", len(q.symbols), len(uids))
	}
	bindings := make(map[Symbol]uint32, len(uids))
	for i, s := range q.symbols {
		bindings[s] = uids[i]
	}
	rows, err := q.ExecuteWith(w, bindings)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Symbols returns the query's output symbols.
func (q *Query) Symbols() []Symbol {
	out := make([]Symbol, len(q.symbols))
	copy(out, q.symbols)
	return out
}

func (q *Query) run(ctx *QueryContext) ([][]uint32, error) {
	for _, clause := range q.clauses {
		rel, err := clause(ctx)
		if err != nil {
			return nil, err
		}
		ctx.Relation = rel

		// Empty-propagation: once nothing matches, later clauses cannot
		// add rows back, so skip them entirely.
		if rel.IsEmpty() {
			return nil, nil
		}
	}
	if ctx.Relation == nil {
		return nil, errors.New("query has no binding clauses")
	}
	return ctx.Relation.Tuples(q.symbols...), nil
}

// QueryBuilder assembles a clause pipeline fluently.
type QueryBuilder struct {
	symbols []Symbol
	clauses []Clause
}

// NewQueryBuilder starts a query whose results are projected onto the given
// output symbols.
func NewQueryBuilder(outputs ...Symbol) *QueryBuilder {
	return &QueryBuilder{symbols: outputs}
}

// With appends a component-possession binding clause.
func (b *QueryBuilder) With(variable Symbol, componentIDs ...ComponentID) *QueryBuilder {
	b.clauses = append(b.clauses, With(variable, componentIDs...))
	return b
}

// From appends an arbitrary binder clause.
func (b *QueryBuilder) From(fn FromFn, variables ...Symbol) *QueryBuilder {
	b.clauses = append(b.clauses, From(fn, variables...))
	return b
}

// Get appends a binder clause with access to the running relation.
func (b *QueryBuilder) Get(fn GetFn, variables ...Symbol) *QueryBuilder {
	b.clauses = append(b.clauses, GetClause(fn, variables...))
	return b
}

// Filter appends a row-predicate clause.
func (b *QueryBuilder) Filter(pred FilterFn, variables ...Symbol) *QueryBuilder {
	b.clauses = append(b.clauses, Filter(pred, variables...))
	return b
}

// Not appends an anti-join clause.
func (b *QueryBuilder) Not(clause Clause) *QueryBuilder {
	b.clauses = append(b.clauses, Not(clause))
	return b
}

// Where appends a prebuilt clause, for clauses composed outside the builder.
func (b *QueryBuilder) Where(clause Clause) *QueryBuilder {
	b.clauses = append(b.clauses, clause)
	return b
}

// Build finalizes the pipeline into an executable Query.
func (b *QueryBuilder) Build() *Query {
	return &Query{
		symbols: append([]Symbol(nil), b.symbols...),
		clauses: append([]Clause(nil), b.clauses...),
	}
}
