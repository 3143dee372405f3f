package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flammable struct{ TagComponent }
type frozen struct{ TagComponent }

func TestQuery_With_RepeatedVariableIntersects(t *testing.T) {
	w := NewWorld()
	w.Spawn("torch", &flammable{})
	both := w.Spawn("icy log", &flammable{}, &frozen{})
	w.Spawn("snowball", &frozen{})

	q := NewQueryBuilder("x").
		With("x", ID[*flammable]()).
		With("x", ID[*frozen]()).
		Build()

	rows, err := q.Execute(w)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, both.UID(), rows[0][0])
}

func TestQuery_DisjointVariablesCrossMerge(t *testing.T) {
	w := NewWorld()
	f1 := w.Spawn("torch", &flammable{})
	f2 := w.Spawn("tinder", &flammable{})
	z1 := w.Spawn("snowball", &frozen{})
	z2 := w.Spawn("icicle", &frozen{})

	q := NewQueryBuilder("hot", "cold").
		With("hot", ID[*flammable]()).
		With("cold", ID[*frozen]()).
		Build()

	rows, err := q.Execute(w)
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]uint32{
		{f1.UID(), z1.UID()},
		{f1.UID(), z2.UID()},
		{f2.UID(), z1.UID()},
		{f2.UID(), z2.UID()},
	}, rows)
}

func TestQuery_EmptyResultShortCircuits(t *testing.T) {
	w := NewWorld()
	w.Spawn("torch", &flammable{})

	filterRan := false
	q := NewQueryBuilder("x").
		With("x", ID[*frozen]()).
		Filter(func(gameobjects ...*GameObject) bool {
			filterRan = true
			return true
		}, "x").
		Build()

	rows, err := q.Execute(w)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.False(t, filterRan)
}

func TestQuery_Filter(t *testing.T) {
	w := NewWorld()
	keep := w.Spawn("keep", &flammable{})
	w.Spawn("drop", &flammable{})

	q := NewQueryBuilder("x").
		With("x", ID[*flammable]()).
		Filter(func(gameobjects ...*GameObject) bool {
			return gameobjects[0].Name() == "keep"
		}, "x").
		Build()

	rows, err := q.Execute(w)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keep.UID(), rows[0][0])
}

func TestQuery_Filter_BeforeBindingIsError(t *testing.T) {
	w := NewWorld()
	q := NewQueryBuilder("x").
		Filter(func(gameobjects ...*GameObject) bool { return true }, "x").
		Build()

	_, err := q.Execute(w)
	assert.Error(t, err)
}

func TestQuery_Not_AntiJoin(t *testing.T) {
	w := NewWorld()
	plain := w.Spawn("torch", &flammable{})
	w.Spawn("icy log", &flammable{}, &frozen{})

	q := NewQueryBuilder("x").
		With("x", ID[*flammable]()).
		Not(With("x", ID[*frozen]())).
		Build()

	rows, err := q.Execute(w)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, plain.UID(), rows[0][0])
}

func TestQuery_From_CustomBinder(t *testing.T) {
	w := NewWorld()
	a := w.Spawn("a", &flammable{})
	b := w.Spawn("b")

	q := NewQueryBuilder("x", "y").
		From(func(w *World) [][]uint32 {
			return [][]uint32{{a.UID(), b.UID()}}
		}, "x", "y").
		With("x", ID[*flammable]()).
		Build()

	rows, err := q.Execute(w)
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{a.UID(), b.UID()}}, rows)
}

func TestQuery_ExecuteWith_SeedsBindings(t *testing.T) {
	w := NewWorld()
	w.Spawn("torch", &flammable{})
	other := w.Spawn("tinder", &flammable{})

	q := NewQueryBuilder("x").
		With("x", ID[*flammable]()).
		Build()

	rows, err := q.ExecuteWith(w, map[Symbol]uint32{"x": other.UID()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, other.UID(), rows[0][0])
}

func TestQuery_ExecuteWith_UnknownSymbolIsError(t *testing.T) {
	w := NewWorld()
	q := NewQueryBuilder("x").
		With("x", ID[*flammable]()).
		Build()

	_, err := q.ExecuteWith(w, map[Symbol]uint32{"y": 1})
	assert.Error(t, err)
}

func TestQuery_Check(t *testing.T) {
	w := NewWorld()
	match := w.Spawn("icy log", &flammable{}, &frozen{})
	miss := w.Spawn("torch", &flammable{})

	q := NewQueryBuilder("x").
		With("x", ID[*flammable]()).
		With("x", ID[*frozen]()).
		Build()

	ok, err := q.Check(w, match.UID())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = q.Check(w, miss.UID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuery_NoBindingClausesIsError(t *testing.T) {
	w := NewWorld()
	q := NewQueryBuilder("x").Build()

	_, err := q.Execute(w)
	assert.Error(t, err)
}
