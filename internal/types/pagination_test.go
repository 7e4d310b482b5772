package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage_NonPositive_DefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 1, NormalizePage(-5))
	assert.Equal(t, 1, NormalizePage(1))
	assert.Equal(t, 7, NormalizePage(7))
}

func TestNormalizeLimit_ClampsIntoRange(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-1))
	assert.Equal(t, 1, NormalizeLimit(1))
	assert.Equal(t, 42, NormalizeLimit(42))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
	assert.Equal(t, MaxLimit, NormalizeLimit(10000))
}

func TestNewPagination_PagesIsCeilOfRecordsOverLimit(t *testing.T) {
	tests := []struct {
		name    string
		records int64
		limit   int
		pages   int64
	}{
		{"empty", 0, 20, 0},
		{"exact single page", 20, 20, 1},
		{"one over", 21, 20, 2},
		{"one under", 19, 20, 1},
		{"exact multiple", 100, 20, 5},
		{"limit one", 7, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(1, tt.limit, tt.records)
			assert.Equal(t, tt.pages, p.Pages)
			assert.Equal(t, tt.records, p.Records)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}
