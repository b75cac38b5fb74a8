package share

// Record is a read-only view of a dataset's metadata: field name to value.
// Boolean-valued entries are presence signals, numeric entries are counts.
// Absent keys degrade to falsy/zero; unknown keys are ignored.
type Record = map[string]any

// Extractor pulls a single signal value out of a repository-specific record.
// Return values are coerced with the engine's truthiness rule (or numeric
// coercion for the reuse slot). Extractors that panic on malformed input are
// the mapping author's responsibility; the engine does not recover them.
type Extractor func(Record) any

// ReuseCountKey is the extractor key the Reuse slot requires in mapping mode.
// A mapping without it scores Reuse as 0.
const ReuseCountKey = "reuse_count"

// SignalMapping translates repository-specific metadata fields into SHARE
// signals, one extractor set per bucket. It is the extensibility seam that
// lets one set of scoring rules serve arbitrary source schemas: build it once
// per repository and reuse it across scoring calls. The engine never mutates
// a mapping after construction.
//
// A nil or empty slot yields a 0 score for that bucket. The uniform buckets
// do not require exactly five extractors: configuring fewer (or more) changes
// that bucket's effective ceiling, which is intentional for schemas that
// cannot express every canonical signal.
type SignalMapping struct {
	Stewardship   map[string]Extractor
	Harmonization map[string]Extractor
	Access        map[string]Extractor
	Reuse         map[string]Extractor
	Engagement    map[string]Extractor
}

// Truthy applies the engine-wide coercion rule: nil, false, numeric zero,
// and the empty string are falsy; anything else is truthy. Mapping authors
// can use it to make extractor return values explicit.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

// Numeric coerces count-like values to float64; non-numeric values count as
// zero. Negative counts are passed through untouched (caller error, handled
// by the reuse guard rather than validated here).
func Numeric(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}
