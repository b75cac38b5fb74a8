package share

import (
	"math"
	"runtime"
	"sync"
)

// Scorer computes SHARE scores for dataset records. It operates in one of
// two modes, fixed at construction time:
//
//  1. Flat mode: records carry the canonical signal keys directly
//     (has_consent, is_open_access, citation_count, ...).
//  2. Mapping mode: a SignalMapping translates repository-specific fields
//     into SHARE signals before scoring.
//
// A Scorer holds no mutable state; the same instance is safe for concurrent
// use across goroutines.
type Scorer struct {
	strategy bucketStrategy
}

// bucketStrategy is the seam between the two record layouts. The choice is
// made once, in the constructor, never per call.
type bucketStrategy interface {
	buckets(r Record) (s, h, a, reuse, e float64)
}

// NewScorer returns a flat-mode scorer expecting canonical signal keys.
func NewScorer() *Scorer {
	return &Scorer{strategy: flatStrategy{}}
}

// NewScorerWithMapping returns a mapping-mode scorer that extracts signals
// through m. A nil mapping falls back to flat mode.
func NewScorerWithMapping(m *SignalMapping) *Scorer {
	if m == nil {
		return NewScorer()
	}
	return &Scorer{strategy: mappingStrategy{mapping: m}}
}

// Score computes the SHARE score for a single record. Sparse or malformed
// signal data degrades silently to zero contribution; only panics from
// caller-supplied extractors propagate.
func (sc *Scorer) Score(record Record) Result {
	s, h, a, r, e := sc.strategy.buckets(record)
	return Result{
		Stewardship:   s,
		Harmonization: h,
		Access:        a,
		Reuse:         r,
		Engagement:    e,
		Total:         round1(s + h + a + r + e),
	}
}

// ScoreBatch scores records independently, returning results 1:1 by
// position. Records share nothing, so the batch fans out across a bounded
// set of goroutines; the index-addressed result slice preserves input order.
func (sc *Scorer) ScoreBatch(records []Record) []Result {
	results := make([]Result, len(records))
	if len(records) == 0 {
		return results
	}

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, record := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, record Record) {
			defer wg.Done()
			results[i] = sc.Score(record)
			<-sem
		}(i, record)
	}
	wg.Wait()

	return results
}

// flatStrategy scores records that carry canonical signal keys directly.
type flatStrategy struct{}

func (flatStrategy) buckets(r Record) (s, h, a, reuse, e float64) {
	s = scoreUniformBucket(r, StewardshipSignals)
	h = scoreUniformBucket(r, HarmonizationSignals)
	a = scoreAccess(r)
	reuse = scoreReuse(r)
	e = scoreUniformBucket(r, EngagementSignals)
	return
}

// mappingStrategy scores records through caller-supplied extractors.
type mappingStrategy struct {
	mapping *SignalMapping
}

func (ms mappingStrategy) buckets(r Record) (s, h, a, reuse, e float64) {
	m := ms.mapping
	s = scoreExtractedBucket(r, m.Stewardship)
	h = scoreExtractedBucket(r, m.Harmonization)
	a = scoreExtractedAccess(r, m.Access)
	reuse = scoreExtractedReuse(r, m.Reuse)
	e = scoreExtractedBucket(r, m.Engagement)
	return
}

// scoreUniformBucket applies the uniform rule: 4 points per truthy signal.
// With the canonical five-signal sets the result is always one of
// {0, 4, 8, 12, 16, 20}.
func scoreUniformBucket(r Record, signals []string) float64 {
	count := 0
	for _, sig := range signals {
		if Truthy(r[sig]) {
			count++
		}
	}
	return float64(SignalPoints * count)
}

// scoreAccess sums the non-uniform Access weights for truthy signals and
// clamps to the bucket ceiling. The canonical weights sum to exactly 20, so
// the clamp only bites when weights are redefined through a mapping.
func scoreAccess(r Record) float64 {
	total := 0.0
	for _, sig := range AccessSignals {
		if Truthy(r[sig]) {
			total += AccessWeights[sig]
		}
	}
	return math.Min(BucketMax, total)
}

// scoreReuse log-scales the combined reuse magnitude into [0, 20].
func scoreReuse(r Record) float64 {
	count := 0.0
	for _, sig := range ReuseCountSignals {
		count += Numeric(r[sig])
	}
	return logScaleReuse(count)
}

// scoreExtractedBucket is the uniform rule under a mapping: each configured
// extractor is invoked and its result coerced to truthiness. The number of
// extractors sets the bucket's effective ceiling; the engine does not pad or
// cap a mapping to five entries.
func scoreExtractedBucket(r Record, extractors map[string]Extractor) float64 {
	count := 0
	for _, fn := range extractors {
		if Truthy(fn(r)) {
			count++
		}
	}
	return float64(SignalPoints * count)
}

// scoreExtractedAccess weighs each configured Access extractor by its
// canonical weight, defaulting to 4 for keys outside the canonical set, and
// clamps the bucket to 20.
func scoreExtractedAccess(r Record, extractors map[string]Extractor) float64 {
	total := 0.0
	for key, fn := range extractors {
		weight, ok := AccessWeights[key]
		if !ok {
			weight = SignalPoints
		}
		if Truthy(fn(r)) {
			total += weight
		}
	}
	return math.Min(BucketMax, total)
}

// scoreExtractedReuse requires a ReuseCountKey extractor returning a numeric
// magnitude; without one the Reuse bucket is 0 regardless of what the record
// carries elsewhere.
func scoreExtractedReuse(r Record, extractors map[string]Extractor) float64 {
	fn, ok := extractors[ReuseCountKey]
	if !ok {
		return 0.0
	}
	return logScaleReuse(Numeric(fn(r)))
}

// logScaleReuse maps a reuse magnitude onto [0, 20]. Reuse counts are
// heavy-tailed, so each order of magnitude is worth a constant increment;
// ReuseLogBase events saturate the bucket. Non-positive counts (including
// unsanitized negative inputs) score exactly 0.
func logScaleReuse(count float64) float64 {
	if count <= 0 {
		return 0.0
	}
	scaled := BucketMax * math.Log10(count+1) / math.Log10(ReuseLogBase)
	return math.Min(BucketMax, round1(scaled))
}

// round1 rounds to one decimal place, the fixed presentation contract for
// totals and the Reuse sub-score.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
