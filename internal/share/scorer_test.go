package share

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullyDocumentedRecord has all 20 canonical flags set and no reuse counts.
func fullyDocumentedRecord() Record {
	r := Record{}
	for _, signals := range [][]string{
		StewardshipSignals, HarmonizationSignals, AccessSignals, EngagementSignals,
	} {
		for _, sig := range signals {
			r[sig] = true
		}
	}
	r["citation_count"] = 0
	return r
}

func TestScoreUniformBucket(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected float64
	}{
		{
			name:     "empty record scores zero",
			record:   Record{},
			expected: 0,
		},
		{
			name: "all five signals true scores twenty",
			record: Record{
				"has_consent":             true,
				"has_deidentification":    true,
				"has_geographic_coverage": true,
				"has_temporal_coverage":   true,
				"has_contributors":        true,
			},
			expected: 20,
		},
		{
			name: "each truthy signal worth four points",
			record: Record{
				"has_consent":      true,
				"has_contributors": true,
			},
			expected: 8,
		},
		{
			name: "falsy values do not count",
			record: Record{
				"has_consent":             false,
				"has_deidentification":    nil,
				"has_geographic_coverage": 0,
				"has_temporal_coverage":   "",
				"has_contributors":        true,
			},
			expected: 4,
		},
		{
			name: "non-boolean truthy values count",
			record: Record{
				"has_consent":      "yes",
				"has_contributors": 3,
			},
			expected: 8,
		},
		{
			name: "unknown keys are ignored",
			record: Record{
				"has_consent": true,
				"unrelated":   true,
			},
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scoreUniformBucket(tt.record, StewardshipSignals)
			assert.Equal(t, tt.expected, result)
			assert.Contains(t, []float64{0, 4, 8, 12, 16, 20}, result)
		})
	}
}

func TestScoreAccess(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected float64
	}{
		{
			name:     "empty record scores zero",
			record:   Record{},
			expected: 0,
		},
		{
			name:     "open access alone dominates at eight points",
			record:   Record{"is_open_access": true},
			expected: 8,
		},
		{
			name:     "secondary signals worth four points each",
			record:   Record{"has_license": true, "has_download_url": true},
			expected: 8,
		},
		{
			name: "all four signals saturate at twenty",
			record: Record{
				"is_open_access":        true,
				"has_license":           true,
				"is_permissive_license": true,
				"has_download_url":      true,
			},
			expected: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scoreAccess(tt.record)
			assert.Equal(t, tt.expected, result)
			assert.GreaterOrEqual(t, result, 0.0)
			assert.LessOrEqual(t, result, BucketMax)
		})
	}
}

func TestLogScaleReuse(t *testing.T) {
	tests := []struct {
		name     string
		count    float64
		expected float64
	}{
		{name: "zero count scores exactly zero", count: 0, expected: 0.0},
		{name: "negative count guarded to zero", count: -50, expected: 0.0},
		{name: "single reuse event", count: 1, expected: 1.5},
		{name: "ten reuse events", count: 10, expected: 5.2},
		{name: "hundred reuse events", count: 100, expected: 10.0},
		{name: "thousand reuse events", count: 1000, expected: 15.0},
		{name: "count of 9999 saturates at the boundary", count: 9999, expected: 20.0},
		{name: "count at the log base stays clamped", count: 10_000, expected: 20.0},
		{name: "unbounded counts never exceed twenty", count: 5_000_000, expected: 20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logScaleReuse(tt.count))
		})
	}
}

func TestLogScaleReuseMonotonic(t *testing.T) {
	prev := 0.0
	for count := 0.0; count <= 20_000; count += 97 {
		score := logScaleReuse(count)
		assert.GreaterOrEqual(t, score, prev, "reuse score regressed at count %f", count)
		assert.LessOrEqual(t, score, BucketMax)
		prev = score
	}
}

func TestScoreReuseCombinesCounts(t *testing.T) {
	// 40 + 50 + 9 = 99 -> 20*log10(100)/log10(10000) = 10.0
	record := Record{
		"citation_count": 40,
		"download_count": 50,
		"derived_count":  9,
	}
	assert.Equal(t, 10.0, scoreReuse(record))
}

func TestScoreFullyDocumentedDataset(t *testing.T) {
	result := NewScorer().Score(fullyDocumentedRecord())

	assert.Equal(t, 20.0, result.Stewardship)
	assert.Equal(t, 20.0, result.Harmonization)
	assert.Equal(t, 20.0, result.Access)
	assert.Equal(t, 0.0, result.Reuse)
	assert.Equal(t, 20.0, result.Engagement)
	assert.Equal(t, 80.0, result.Total)
	assert.Equal(t, 80.0, result.NonReuseScore())
}

func TestScoreMinimalDeposit(t *testing.T) {
	// Contributors listed, open access, three citations: the golden
	// bare-minimum deposit scenario.
	result := NewScorer().Score(Record{
		"has_contributors": true,
		"is_open_access":   true,
		"citation_count":   3,
	})

	assert.Equal(t, 4.0, result.Stewardship)
	assert.Equal(t, 0.0, result.Harmonization)
	assert.Equal(t, 8.0, result.Access)
	assert.Equal(t, 3.0, result.Reuse)
	assert.Equal(t, 0.0, result.Engagement)
	assert.Equal(t, 15.0, result.Total)
	assert.Equal(t, 12.0, result.NonReuseScore())
}

func TestScoreEmptyRecord(t *testing.T) {
	result := NewScorer().Score(Record{})
	assert.Equal(t, Result{}, result)
}

func TestTotalIsSumOfBuckets(t *testing.T) {
	records := []Record{
		{},
		{"has_consent": true, "citation_count": 42},
		{"is_open_access": true, "has_keywords": true, "download_count": 7},
		fullyDocumentedRecord(),
	}

	scorer := NewScorer()
	for _, record := range records {
		result := scorer.Score(record)
		sum := result.Stewardship + result.Harmonization + result.Access +
			result.Reuse + result.Engagement
		assert.Equal(t, round1(sum), result.Total)
		assert.Equal(t, result.Total-result.Reuse, result.NonReuseScore())
	}
}

func TestResultAsMap(t *testing.T) {
	result := NewScorer().Score(Record{
		"has_contributors": true,
		"is_open_access":   true,
		"citation_count":   3,
	})

	m := result.AsMap()
	require.Len(t, m, 6)
	assert.Equal(t, 4.0, m["S"])
	assert.Equal(t, 0.0, m["H"])
	assert.Equal(t, 8.0, m["A"])
	assert.Equal(t, 3.0, m["R"])
	assert.Equal(t, 0.0, m["E"])
	assert.Equal(t, 15.0, m["total"])
}

func TestScoreBatchPreservesOrder(t *testing.T) {
	records := make([]Record, 200)
	for i := range records {
		records[i] = Record{"citation_count": i * 7}
	}

	results := NewScorer().ScoreBatch(records)
	require.Len(t, results, len(records))

	scorer := NewScorer()
	for i, record := range records {
		assert.Equal(t, scorer.Score(record), results[i],
			fmt.Sprintf("result at index %d does not match its record", i))
	}
}

func TestScoreBatchEmpty(t *testing.T) {
	results := NewScorer().ScoreBatch(nil)
	assert.Empty(t, results)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 3.0, round1(3.010299957))
	assert.Equal(t, 15.1, round1(15.06))
	assert.Equal(t, 0.0, round1(0.04))
	assert.Equal(t, 20.0, round1(19.9999))
}
