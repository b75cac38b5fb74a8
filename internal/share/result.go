package share

// Result holds the five bucket scores and the total SHARE score for a single
// dataset. Each bucket is in [0, 20]; Total is their sum, rounded to one
// decimal place. Results are plain values owned by the caller.
type Result struct {
	Stewardship   float64 `json:"S"`
	Harmonization float64 `json:"H"`
	Access        float64 `json:"A"`
	Reuse         float64 `json:"R"`
	Engagement    float64 `json:"E"`
	Total         float64 `json:"total"`
}

// NonReuseScore is the deposit-time score: the total minus the outcome-based
// Reuse bucket, which is not knowable when a dataset is first published.
func (r Result) NonReuseScore() float64 {
	return r.Stewardship + r.Harmonization + r.Access + r.Engagement
}

// AsMap flattens the result into a plain key-value view.
func (r Result) AsMap() map[string]float64 {
	return map[string]float64{
		"S":     r.Stewardship,
		"H":     r.Harmonization,
		"A":     r.Access,
		"R":     r.Reuse,
		"E":     r.Engagement,
		"total": r.Total,
	}
}
