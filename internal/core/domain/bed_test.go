package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCoordinates_DeduplicatesAndSorts(t *testing.T) {
	records := []CoordinateRecord{
		{Chromosome: "2", Start: 100, End: 200, GeneID: "GENE2"},
		{Chromosome: "1", Start: 500, End: 600, GeneID: "GENE1"},
		{Chromosome: "1", Start: 100, End: 200, GeneID: "GENE1"},
		{Chromosome: "1", Start: 100, End: 200, GeneID: "GENE1"}, // duplicate
	}

	merged := MergeCoordinates(records)

	assert.Equal(t, []CoordinateRecord{
		{Chromosome: "1", Start: 100, End: 200, GeneID: "GENE1"},
		{Chromosome: "1", Start: 500, End: 600, GeneID: "GENE1"},
		{Chromosome: "2", Start: 100, End: 200, GeneID: "GENE2"},
	}, merged)
}

func TestMergeCoordinates_SharedIntervalKeptPerGene(t *testing.T) {
	// Two genes reporting the same interval are distinct records.
	records := []CoordinateRecord{
		{Chromosome: "7", Start: 10, End: 20, GeneID: "GENEB"},
		{Chromosome: "7", Start: 10, End: 20, GeneID: "GENEA"},
	}

	merged := MergeCoordinates(records)

	assert.Len(t, merged, 2)
	assert.Equal(t, "GENEA", merged[0].GeneID)
	assert.Equal(t, "GENEB", merged[1].GeneID)
}

func TestMergeCoordinates_NaturalChromosomeOrder(t *testing.T) {
	records := []CoordinateRecord{
		{Chromosome: "MT", Start: 1, End: 2, GeneID: "M"},
		{Chromosome: "X", Start: 1, End: 2, GeneID: "X"},
		{Chromosome: "10", Start: 1, End: 2, GeneID: "TEN"},
		{Chromosome: "2", Start: 1, End: 2, GeneID: "TWO"},
		{Chromosome: "Y", Start: 1, End: 2, GeneID: "Y"},
	}

	merged := MergeCoordinates(records)

	chroms := make([]string, 0, len(merged))
	for _, rec := range merged {
		chroms = append(chroms, rec.Chromosome)
	}
	assert.Equal(t, []string{"2", "10", "X", "Y", "MT"}, chroms)
}

func TestMergeCoordinates_OrderIndependent(t *testing.T) {
	a := []CoordinateRecord{
		{Chromosome: "1", Start: 1, End: 2, GeneID: "A"},
		{Chromosome: "1", Start: 3, End: 4, GeneID: "B"},
	}
	b := []CoordinateRecord{a[1], a[0]}

	assert.Equal(t, MergeCoordinates(a), MergeCoordinates(b))
}

func TestMergeCoordinates_Empty(t *testing.T) {
	assert.Empty(t, MergeCoordinates(nil))
}
