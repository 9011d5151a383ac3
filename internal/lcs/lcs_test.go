package lcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subdiff/internal/editrec"
)

func kinds[T any](recs []editrec.Record[T]) []editrec.Kind {
	out := make([]editrec.Kind, len(recs))
	for i, r := range recs {
		out[i] = r.Kind
	}
	return out
}

func TestDiffSimpleSubstitution(t *testing.T) {
	a := []string{"a", "b"}
	b := []string{"a", "c"}

	got := Diff(a, b)
	require.Len(t, got, 3)
	assert.Equal(t, []editrec.Kind{editrec.Common, editrec.Removed, editrec.Added}, kinds(got))
	assert.Equal(t, "a", got[0].Data)
	assert.Equal(t, 0, got[0].OldIndex)
	assert.Equal(t, 0, got[0].NewIndex)
	assert.Equal(t, "b", got[1].Data)
	assert.Equal(t, 1, got[1].OldIndex)
	assert.Equal(t, "c", got[2].Data)
	assert.Equal(t, 1, got[2].NewIndex)
}

func TestDiffIdentity(t *testing.T) {
	a := []string{"x", "y", "z"}
	got := Diff(a, a)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, editrec.Common, r.Kind)
	}
}

func TestDiffAllAdded(t *testing.T) {
	got := Diff([]string{}, []string{"x", "y"})
	require.Len(t, got, 2)
	assert.Equal(t, editrec.Added, got[0].Kind)
	assert.Equal(t, editrec.Added, got[1].Kind)
}

func TestDiffAllRemoved(t *testing.T) {
	got := Diff([]string{"x", "y"}, []string{})
	require.Len(t, got, 2)
	assert.Equal(t, editrec.Removed, got[0].Kind)
	assert.Equal(t, editrec.Removed, got[1].Kind)
}

func TestDiffBothEmpty(t *testing.T) {
	got := Diff([]string{}, []string{})
	assert.Len(t, got, 0)
}

func TestDiffInsertionInMiddle(t *testing.T) {
	a := []string{"a", "b", "c"}
	b := []string{"a", "x", "b", "c"}
	got := Diff(a, b)
	// Reconstruct both sides from the edit script and check they match.
	var oldSide, newSide []string
	for _, r := range got {
		switch r.Kind {
		case editrec.Common:
			oldSide = append(oldSide, r.Data)
			newSide = append(newSide, r.Data)
		case editrec.Removed:
			oldSide = append(oldSide, r.Data)
		case editrec.Added:
			newSide = append(newSide, r.Data)
		}
	}
	assert.Equal(t, a, oldSide)
	assert.Equal(t, b, newSide)
}

func TestDiffReconstructsRandomish(t *testing.T) {
	a := []string{"1", "2", "3", "4", "5", "6"}
	b := []string{"2", "3", "4", "7", "8", "6"}
	got := Diff(a, b)

	var oldSide, newSide []string
	for _, r := range got {
		switch r.Kind {
		case editrec.Common:
			oldSide = append(oldSide, r.Data)
			newSide = append(newSide, r.Data)
		case editrec.Removed:
			oldSide = append(oldSide, r.Data)
		case editrec.Added:
			newSide = append(newSide, r.Data)
		}
	}
	assert.Equal(t, a, oldSide)
	assert.Equal(t, b, newSide)
}
