package share

// Canonical signal keys for each SHARE bucket. The three uniform buckets
// (Stewardship, Harmonization, Engagement) carry exactly five boolean signals
// worth 4 points each; Access is value-weighted and Reuse is log-scaled.

// StewardshipSignals are the flat-mode keys for the Stewardship bucket.
var StewardshipSignals = []string{
	"has_consent",             // consent attestation
	"has_deidentification",    // de-identification documented
	"has_geographic_coverage", // geographic coverage specified
	"has_temporal_coverage",   // temporal coverage (dates)
	"has_contributors",        // contributors listed
}

// HarmonizationSignals are the flat-mode keys for the Harmonization bucket.
var HarmonizationSignals = []string{
	"has_methods",          // methods/study design documented
	"has_contributor_pids", // contributor persistent IDs (ORCID)
	"has_org_pids",         // organization PIDs (ROR)
	"has_references",       // references and links
	"has_description",      // description quality
}

// AccessSignals are the flat-mode keys for the Access bucket, evaluated
// against AccessWeights.
var AccessSignals = []string{
	"is_open_access",
	"has_license",
	"is_permissive_license",
	"has_download_url",
}

// AccessWeights assigns non-uniform points to the Access signals. Open
// access dominates because it is the single largest determinant of reuse
// potential; license, permissiveness, and machine-downloadability are
// equally-weighted refinements.
var AccessWeights = map[string]float64{
	"is_open_access":        8,
	"has_license":           4,
	"is_permissive_license": 4,
	"has_download_url":      4,
}

// EngagementSignals are the flat-mode keys for the Engagement bucket.
var EngagementSignals = []string{
	"has_related_publications", // related publications linked
	"has_related_data",         // related datasets linked
	"has_funding",              // funding source documented
	"has_version",              // version tracking / standard compliance
	"has_keywords",             // keywords/tags present
}

// ReuseCountSignals are the flat-mode numeric keys summed into the reuse
// magnitude feeding the log-scaled Reuse bucket.
var ReuseCountSignals = []string{
	"citation_count",
	"download_count",
	"derived_count",
}

// SignalPoints is the per-signal value in the uniform buckets.
const SignalPoints = 4

// BucketMax is the ceiling enforced on every bucket score.
const BucketMax = 20.0

// ReuseLogBase calibrates the Reuse bucket: this many reuse events saturate
// the bucket at its 20-point maximum.
const ReuseLogBase = 10_000
