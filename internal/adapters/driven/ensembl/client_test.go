package ensembl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

func TestLookup_ResolvesManeSelectExons(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lookup/symbol/homo_sapiens/BRCA1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": "ENSG00000012048"}`)
	})
	mux.HandleFunc("/overlap/id/ENSG00000012048", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "transcript", r.URL.Query().Get("feature"))
		fmt.Fprint(w, `[
			{"id": "ENST00000352993", "seq_region_name": "17", "start": 43045629, "end": 43125483,
			 "tag": ["basic"]},
			{"id": "ENST00000357654", "seq_region_name": "17", "start": 43044295, "end": 43125483,
			 "tag": ["basic", "MANE_Select"]}
		]`)
	})
	mux.HandleFunc("/overlap/id/ENST00000357654", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "exon", r.URL.Query().Get("feature"))
		fmt.Fprint(w, `[
			{"id": "ENSE1", "seq_region_name": "17", "start": 43044295, "end": 43045802},
			{"id": "ENSE2", "seq_region_name": "17", "start": 43047643, "end": 43047703}
		]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	records, err := NewClient(server.URL).Lookup(context.Background(), "BRCA1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Exon starts shift from 1-based inclusive to 0-based half-open.
	assert.Equal(t, domain.CoordinateRecord{
		Chromosome: "17",
		Start:      43044294,
		End:        43045802,
		GeneID:     "BRCA1",
	}, records[0])
	assert.Equal(t, int64(43047642), records[1].Start)
}

func TestLookup_UnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	records, err := NewClient(server.URL).Lookup(context.Background(), "NOSUCHGENE")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLookup_NoManeSelectTranscript(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lookup/symbol/homo_sapiens/ODDGENE", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": "ENSG00000000001"}`)
	})
	mux.HandleFunc("/overlap/id/ENSG00000000001", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"id": "ENST00000000001", "seq_region_name": "1", "start": 100, "end": 200,
			 "tag": ["basic"]}
		]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	records, err := NewClient(server.URL).Lookup(context.Background(), "ODDGENE")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLookup_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Lookup(context.Background(), "BRCA1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestLookup_CustomSpecies(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithSpecies("mus_musculus"))
	_, err := client.Lookup(context.Background(), "Trp53")
	require.NoError(t, err)
	assert.Equal(t, "/lookup/symbol/mus_musculus/Trp53", requestedPath)
}
