// Package taxonomy defines the contract for resolving the eBird species
// taxonomy. The taxonomy is the reference that turns scientific names
// from raw observation records into stable species codes.
package taxonomy

import "context"

// Species is one record of the eBird taxonomy as returned by the
// reference API. Only SpeciesCode and ScientificName are guaranteed;
// every other field may be missing from the source and decodes to its
// zero value.
type Species struct {
	SpeciesCode          string   `json:"speciesCode"`
	ScientificName       string   `json:"sciName"`
	CommonName           string   `json:"comName"`
	Category             string   `json:"category"`
	TaxonOrder           float64  `json:"taxonOrder"`
	BandingCodes         []string `json:"bandingCodes"`
	CommonNameCodes      []string `json:"comNameCodes"`
	ScientificNameCodes  []string `json:"sciNameCodes"`
	Order                string   `json:"order"`
	FamilyCode           string   `json:"familyCode"`
	FamilyCommonName     string   `json:"familyComName"`
	FamilyScientificName string   `json:"familySciName"`
}

// Resolver fetches the full eBird taxonomy once per process and caches
// it for the lifetime of the process. Concurrent callers observe a
// single fetch. A run that needs fresher taxonomy must restart the
// process.
type Resolver interface {
	// Records returns the full cached species record set, fetching it
	// on the first call.
	Records(ctx context.Context) ([]Species, error)

	// CodeMap returns the scientific name to species code mapping
	// derived from Records. The map is read-only after it is built.
	CodeMap(ctx context.Context) (map[string]string, error)
}
