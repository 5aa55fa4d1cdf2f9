package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFusionMethod_Validate tests validation of fusion method names
func TestFusionMethod_Validate(t *testing.T) {
	tests := []struct {
		name    string
		method  FusionMethod
		wantErr bool
	}{
		{"weighted", FusionWeighted, false},
		{"rrf", FusionRRF, false},
		{"max", FusionMax, false},
		{"bogus", FusionMethod("bogus"), true},
		{"empty", FusionMethod(""), true},
		{"case sensitive", FusionMethod("Weighted"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.method.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFusionMethod)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestSearchResult_ChunkID tests identity matches the underlying chunk
func TestSearchResult_ChunkID(t *testing.T) {
	r := SearchResult{DocumentID: 5, ChunkIndex: 2}
	c := Chunk{DocumentID: 5, ChunkIndex: 2}
	assert.Equal(t, c.ChunkID(), r.ChunkID())
}

// TestSearchOptions_ZeroValues tests SearchOptions defaults
func TestSearchOptions_ZeroValues(t *testing.T) {
	opts := SearchOptions{}

	assert.Equal(t, int64(0), opts.UserID)
	assert.Equal(t, int64(0), opts.DocumentID)
	assert.Equal(t, 0, opts.Limit)
	assert.Equal(t, 0.0, opts.VectorWeight)
	assert.Equal(t, 0.0, opts.KeywordWeight)
	assert.Equal(t, FusionMethod(""), opts.Fusion)
}

// TestQueryAnalysis_IndependentSignals tests that semantic and keyword
// signals are independent booleans, not exclusive categories
func TestQueryAnalysis_IndependentSignals(t *testing.T) {
	a := QueryAnalysis{IsSemanticHeavy: true, IsKeywordHeavy: true}
	assert.True(t, a.IsSemanticHeavy)
	assert.True(t, a.IsKeywordHeavy)
}
