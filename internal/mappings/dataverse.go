package mappings

import (
	"strings"

	"github.com/sharelab/share-o-meter/internal/share"
)

// permissiveLicenses are SPDX-style prefixes Dataverse installations commonly
// attach to openly reusable datasets.
var permissiveLicenses = []string{"CC0", "CC-BY", "CC BY", "MIT", "APACHE"}

// Dataverse maps the Dataverse citation-block schema onto SHARE signals.
// Dataverse has no consent-attestation or de-identification fields, so the
// Stewardship slot configures three extractors and tops out at 12.
func Dataverse() *share.SignalMapping {
	return &share.SignalMapping{
		Stewardship: map[string]share.Extractor{
			"has_geographic_coverage": func(r share.Record) any { return r["geographicCoverage"] },
			"has_temporal_coverage":   func(r share.Record) any { return r["timePeriodCovered"] },
			"has_contributors":        func(r share.Record) any { return r["author"] },
		},
		Harmonization: map[string]share.Extractor{
			"has_methods": func(r share.Record) any { return r["dataCollectionMethodology"] },
			"has_contributor_pids": func(r share.Record) any {
				scheme, _ := r["authorIdentifierScheme"].(string)
				return strings.EqualFold(scheme, "ORCID") && share.Truthy(r["authorIdentifier"])
			},
			"has_org_pids":    func(r share.Record) any { return r["producerAffiliationIdentifier"] },
			"has_references":  func(r share.Record) any { return r["publicationCitation"] },
			"has_description": func(r share.Record) any { return r["dsDescription"] },
		},
		Access: map[string]share.Extractor{
			"is_open_access": func(r share.Record) any { return !share.Truthy(r["restricted"]) },
			"has_license":    func(r share.Record) any { return r["license"] },
			"is_permissive_license": func(r share.Record) any {
				license, _ := r["license"].(string)
				return isPermissive(license)
			},
			"has_download_url": func(r share.Record) any { return r["persistentUrl"] },
		},
		Reuse: map[string]share.Extractor{
			share.ReuseCountKey: func(r share.Record) any {
				return share.Numeric(r["downloadCount"]) + share.Numeric(r["citationCount"])
			},
		},
		Engagement: map[string]share.Extractor{
			"has_related_publications": func(r share.Record) any { return r["publicationCitation"] },
			"has_related_data":         func(r share.Record) any { return r["relatedDatasets"] },
			"has_funding":              func(r share.Record) any { return r["grantNumber"] },
			"has_version":              func(r share.Record) any { return r["versionNumber"] },
			"has_keywords":             func(r share.Record) any { return r["keyword"] },
		},
	}
}

// isPermissive reports whether a license label denotes a permissive license.
func isPermissive(license string) bool {
	upper := strings.ToUpper(strings.TrimSpace(license))
	for _, prefix := range permissiveLicenses {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}
