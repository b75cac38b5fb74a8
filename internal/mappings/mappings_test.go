package mappings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharelab/share-o-meter/internal/share"
)

func TestForRepository(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr bool
	}{
		{name: "openneuro preset", repo: "openneuro"},
		{name: "dataverse preset", repo: "dataverse"},
		{name: "lookup is case-insensitive", repo: "OpenNeuro"},
		{name: "surrounding whitespace is tolerated", repo: " dataverse "},
		{name: "unknown repository is an error", repo: "figshare", wantErr: true},
		{name: "empty name is an error", repo: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ForRepository(tt.repo)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestForRepositoryReturnsFreshMapping(t *testing.T) {
	first, err := ForRepository("openneuro")
	require.NoError(t, err)
	second, err := ForRepository("openneuro")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"dataverse", "openneuro"}, Names())
}

func TestOpenNeuroMapping(t *testing.T) {
	scorer := share.NewScorerWithMapping(OpenNeuro())

	result := scorer.Score(share.Record{
		"affirmedConsent":    true,
		"affirmedDefaced":    true,
		"studyPeriod":        "2019-2021",
		"seniorAuthor":       "Doe J",
		"studyDesign":        "longitudinal",
		"associatedPaperDOI": "10.1000/xyz",
		"readme":             "A multimodal MRI dataset.",
		"license":            "CC0",
		"datasetUrl":         "https://openneuro.org/datasets/ds000001",
		"downloads":          80,
		"citations":          19,
		"grantFunderName":    "NIH",
		"snapshotTag":        "1.0.1",
		"modalities":         []string{"MRI", "EEG"},
	})

	// OpenNeuro configures four Stewardship and three Harmonization
	// extractors, so those buckets top out at 16 and 12.
	assert.Equal(t, 16.0, result.Stewardship)
	assert.Equal(t, 12.0, result.Harmonization)
	assert.Equal(t, 20.0, result.Access)
	// 80 downloads + 19 citations = 99 -> log-scaled 10.0.
	assert.Equal(t, 10.0, result.Reuse)
	assert.Equal(t, 16.0, result.Engagement)
	assert.Equal(t, 74.0, result.Total)
}

func TestOpenNeuroIsAlwaysOpenAccess(t *testing.T) {
	result := share.NewScorerWithMapping(OpenNeuro()).Score(share.Record{})
	assert.Equal(t, 8.0, result.Access)
}

func TestDataverseMapping(t *testing.T) {
	scorer := share.NewScorerWithMapping(Dataverse())

	result := scorer.Score(share.Record{
		"geographicCoverage":            "United States",
		"timePeriodCovered":             "2020-2022",
		"author":                        "Doe, Jane; Roe, Richard",
		"dataCollectionMethodology":     "stratified household survey",
		"authorIdentifierScheme":        "ORCID",
		"authorIdentifier":              "0000-0002-1825-0097",
		"producerAffiliationIdentifier": "https://ror.org/abc123",
		"publicationCitation":           "Doe & Roe (2023)",
		"dsDescription":                 "Longitudinal survey responses.",
		"restricted":                    false,
		"license":                       "CC BY 4.0",
		"persistentUrl":                 "https://doi.org/10.7910/DVN/XXXXX",
		"downloadCount":                 900,
		"citationCount":                 99,
		"relatedDatasets":               "doi:10.7910/DVN/YYYYY",
		"grantNumber":                   "R01-MH000000",
		"versionNumber":                 2,
		"keyword":                       []string{"survey", "longitudinal"},
	})

	assert.Equal(t, 12.0, result.Stewardship)
	assert.Equal(t, 20.0, result.Harmonization)
	assert.Equal(t, 20.0, result.Access)
	// 900 downloads + 99 citations = 999 -> log-scaled 15.0.
	assert.Equal(t, 15.0, result.Reuse)
	assert.Equal(t, 20.0, result.Engagement)
	assert.Equal(t, 87.0, result.Total)
}

func TestDataverseRestrictedDatasetIsNotOpenAccess(t *testing.T) {
	result := share.NewScorerWithMapping(Dataverse()).Score(share.Record{
		"restricted": true,
		"license":    "proprietary",
	})
	// has_license still counts; is_open_access and is_permissive_license
	// do not.
	assert.Equal(t, 4.0, result.Access)
}

func TestDataverseOrcidRequiresScheme(t *testing.T) {
	scorer := share.NewScorerWithMapping(Dataverse())

	withScheme := scorer.Score(share.Record{
		"authorIdentifierScheme": "ORCID",
		"authorIdentifier":       "0000-0002-1825-0097",
	})
	withoutScheme := scorer.Score(share.Record{
		"authorIdentifierScheme": "ISNI",
		"authorIdentifier":       "0000-0002-1825-0097",
	})

	assert.Equal(t, 4.0, withScheme.Harmonization)
	assert.Equal(t, 0.0, withoutScheme.Harmonization)
}

func TestIsPermissive(t *testing.T) {
	tests := []struct {
		license  string
		expected bool
	}{
		{license: "CC0 1.0", expected: true},
		{license: "CC BY 4.0", expected: true},
		{license: "CC-BY 4.0", expected: true},
		{license: "MIT", expected: true},
		{license: "apache-2.0", expected: true},
		{license: "proprietary", expected: false},
		{license: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.license, func(t *testing.T) {
			assert.Equal(t, tt.expected, isPermissive(tt.license))
		})
	}
}
