package types

// ScoreRequest is the body for the single-record scoring endpoint. Repository
// optionally names a registered mapping preset; when empty the record is
// scored in flat mode against the canonical signal keys.
type ScoreRequest struct {
	Record     map[string]any `json:"record" binding:"required"`
	Repository string         `json:"repository,omitempty"`
}

// BatchScoreRequest is the body for the batch scoring endpoint. Results are
// returned 1:1 by position.
type BatchScoreRequest struct {
	Records    []map[string]any `json:"records"`
	Repository string           `json:"repository,omitempty"`
}

// SIndexRequest is the body for the researcher-index endpoint: a list of
// per-dataset SHARE score totals.
type SIndexRequest struct {
	Totals []float64 `json:"totals"`
}
