package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff_AddedAndRemoved(t *testing.T) {
	historical := NewGeneSet("BRCA1", "BRCA2", "TP53")
	live := NewGeneSet("BRCA1", "TP53", "MLH1", "MSH2")

	diff := Diff("R169", historical, live)

	assert.Equal(t, "R169", diff.ClinicalCode)
	assert.Equal(t, []string{"MLH1", "MSH2"}, diff.Added)
	assert.Equal(t, []string{"BRCA2"}, diff.Removed)
	assert.False(t, diff.Identical())
	assert.False(t, diff.ComparedAt.IsZero())
}

func TestDiff_IdenticalSets(t *testing.T) {
	historical := NewGeneSet("BRCA1", "TP53")
	live := NewGeneSet("tp53", " BRCA1 ")

	diff := Diff("R169", historical, live)

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
	assert.True(t, diff.Identical())
}

func TestDiff_OrderIndependent(t *testing.T) {
	a := Diff("R1", NewGeneSet("A", "B", "C"), NewGeneSet("C", "D"))
	b := Diff("R1", NewGeneSet("C", "B", "A"), NewGeneSet("D", "C"))

	assert.Equal(t, a.Added, b.Added)
	assert.Equal(t, a.Removed, b.Removed)
}

func TestDiff_DisjointResults(t *testing.T) {
	diff := Diff("R1", NewGeneSet("A", "B"), NewGeneSet("B", "C"))
	for _, added := range diff.Added {
		assert.NotContains(t, diff.Removed, added)
	}
}

func TestDiff_EmptyHistorical(t *testing.T) {
	diff := Diff("R1", NewGeneSet(), NewGeneSet("A"))
	assert.Equal(t, []string{"A"}, diff.Added)
	assert.Empty(t, diff.Removed)
}
