// Package mappings ships ready-made SignalMappings for well-known dataset
// repository schemas, so callers can score records in those repositories'
// native field layout without writing extractors by hand.
package mappings

import (
	"strings"

	"github.com/sharelab/share-o-meter/internal/share"
)

// OpenNeuro maps the OpenNeuro dataset schema (BIDS-flavored camelCase
// metadata) onto SHARE signals.
//
// OpenNeuro has no geographic-coverage or organization-PID fields, so the
// Stewardship and Harmonization slots configure fewer than five extractors
// and those buckets top out below 20 for OpenNeuro records.
func OpenNeuro() *share.SignalMapping {
	return &share.SignalMapping{
		Stewardship: map[string]share.Extractor{
			"has_consent":           func(r share.Record) any { return r["affirmedConsent"] },
			"has_deidentification":  func(r share.Record) any { return r["affirmedDefaced"] },
			"has_temporal_coverage": func(r share.Record) any { return r["studyPeriod"] },
			"has_contributors":      func(r share.Record) any { return r["seniorAuthor"] },
		},
		Harmonization: map[string]share.Extractor{
			"has_methods":     func(r share.Record) any { return r["studyDesign"] },
			"has_references":  func(r share.Record) any { return r["associatedPaperDOI"] },
			"has_description": func(r share.Record) any { return r["readme"] },
		},
		Access: map[string]share.Extractor{
			// Every published OpenNeuro dataset is openly accessible.
			"is_open_access": func(share.Record) any { return true },
			"has_license":    func(r share.Record) any { return r["license"] },
			"is_permissive_license": func(r share.Record) any {
				license, _ := r["license"].(string)
				return strings.HasPrefix(strings.ToUpper(license), "CC0")
			},
			"has_download_url": func(r share.Record) any { return r["datasetUrl"] },
		},
		Reuse: map[string]share.Extractor{
			share.ReuseCountKey: func(r share.Record) any {
				return share.Numeric(r["downloads"]) + share.Numeric(r["citations"]) + share.Numeric(r["analysisCount"])
			},
		},
		Engagement: map[string]share.Extractor{
			"has_related_publications": func(r share.Record) any { return r["associatedPaperDOI"] },
			"has_funding":              func(r share.Record) any { return r["grantFunderName"] },
			"has_version":              func(r share.Record) any { return r["snapshotTag"] },
			"has_keywords":             func(r share.Record) any { return r["modalities"] },
		},
	}
}
