// Package schema provides database schema models for ebirddb.
// The models mirror the eBird Basic Dataset extracts after
// normalization; raw source columns map onto them during import.
package schema

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE IF NOT EXISTS statement for
	// this model, so every import stage can guarantee its own target.
	TableDDL() string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string

	// Columns returns the column names in declaration order, used as
	// the explicit column list for COPY and INSERT statements.
	Columns() []string
}

// Locality is a distinct observation site derived from sampling
// records. Exactly one row exists per LocalityID; duplicates in the
// source are dropped, not merged.
type Locality struct {
	// LocalityID is the stable eBird identifier, e.g. "L123456".
	LocalityID string `db:"locality_id" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	// Name is the human-readable locality name.
	Name string `db:"name" ddl:"TEXT" gorm:"type:text"`

	// Type is the locality category code (hotspot, personal, etc).
	Type string `db:"type" ddl:"TEXT" gorm:"type:text"`

	Latitude  float64 `db:"latitude" ddl:"FLOAT"`
	Longitude float64 `db:"longitude" ddl:"FLOAT"`
}

// Checklist is one checklist-submission event, derived from sampling
// records. Exactly one row exists per SamplingEventID.
type Checklist struct {
	// SamplingEventID is the stable eBird identifier, e.g. "S98765".
	SamplingEventID string `db:"sampling_event_id" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	LastEditedDate string `db:"last_edited_date" ddl:"TIMESTAMPTZ" gorm:"type:timestamptz"`
	Country        string `db:"country" ddl:"TEXT" gorm:"type:text"`
	CountryCode    string `db:"country_code" ddl:"TEXT" gorm:"type:text"`
	State          string `db:"state" ddl:"TEXT" gorm:"type:text"`
	StateCode      string `db:"state_code" ddl:"TEXT" gorm:"type:text"`
	County         string `db:"county" ddl:"TEXT" gorm:"type:text"`
	CountyCode     string `db:"county_code" ddl:"TEXT" gorm:"type:text"`

	// IbaCode is the Important Bird Area code.
	IbaCode string `db:"iba_code" ddl:"TEXT" gorm:"type:text"`

	// BcrCode is the Bird Conservation Region code.
	BcrCode string `db:"bcr_code" ddl:"TEXT" gorm:"type:text"`

	// UsfwsCode is the US Fish and Wildlife Service code.
	UsfwsCode string `db:"usfws_code" ddl:"TEXT" gorm:"type:text"`

	AtlasBlock      string `db:"atlas_block" ddl:"TEXT" gorm:"type:text"`
	ObservationDate string `db:"observation_date" ddl:"DATE" gorm:"type:date"`
	TimeStarted     string `db:"time_started" ddl:"TIME" gorm:"type:time"`
	ObserverID      string `db:"observer_id" ddl:"TEXT" gorm:"type:text"`

	// ProtocolType is incidental, stationary or traveling.
	ProtocolType string `db:"protocol_type" ddl:"TEXT" gorm:"type:text"`
	ProtocolCode string `db:"protocol_code" ddl:"TEXT" gorm:"type:text"`

	// ProjectCode is ebird, atlas, etc.
	ProjectCode string `db:"project_code" ddl:"TEXT" gorm:"type:text"`

	DurationMinutes    int     `db:"duration_minutes" ddl:"INT"`
	EffortDistanceKm   float64 `db:"effort_distance_km" ddl:"FLOAT"`
	EffortAreaHa       float64 `db:"effort_area_ha" ddl:"FLOAT"`
	NumberObservers    int     `db:"number_observers" ddl:"INT"`
	AllSpeciesReported bool    `db:"all_species_reported" ddl:"BOOL"`
	GroupIdentifier    string  `db:"group_identifier" ddl:"TEXT" gorm:"type:text"`
	TripComments       string  `db:"trip_comments" ddl:"TEXT" gorm:"type:text"`

	// LocalityID references the locality the checklist was made at.
	LocalityID string `db:"locality_id" ddl:"TEXT REFERENCES localities(locality_id)" gorm:"type:text"`
}

// Species is one taxon from the eBird taxonomy. The table is
// append-only from the import pipeline's perspective: rows are
// inserted if absent and never updated in place.
type Species struct {
	// SpeciesCode is the stable eBird taxon identifier, e.g. "blujay".
	SpeciesCode string `db:"species_code" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	CommonName string `db:"common_name" ddl:"TEXT" gorm:"type:text"`

	// ScientificName is the join key used to resolve raw observation
	// records; it is unique within a taxonomy snapshot.
	ScientificName string `db:"scientific_name" ddl:"TEXT" gorm:"type:text"`

	// Category is species, hybrid, etc.
	Category   string `db:"category" ddl:"TEXT" gorm:"type:text"`
	TaxonOrder int    `db:"taxon_order" ddl:"INT"`

	BandingCodes        []string `db:"banding_codes" ddl:"TEXT[]" gorm:"type:text[]"`
	CommonNameCodes     []string `db:"common_name_codes" ddl:"TEXT[]" gorm:"type:text[]"`
	ScientificNameCodes []string `db:"scientific_name_codes" ddl:"TEXT[]" gorm:"type:text[]"`

	OrderName            string `db:"order_name" ddl:"TEXT" gorm:"type:text"`
	FamilyCode           string `db:"family_code" ddl:"TEXT" gorm:"type:text"`
	FamilyCommonName     string `db:"family_common_name" ddl:"TEXT" gorm:"type:text"`
	FamilyScientificName string `db:"family_scientific_name" ddl:"TEXT" gorm:"type:text"`
}

// Observation is one species sighting tied to a checklist.
type Observation struct {
	// GlobalUniqueIdentifier is the stable eBird record URN.
	GlobalUniqueIdentifier string `db:"global_unique_identifier" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	// SamplingEventID references the checklist the sighting belongs to.
	SamplingEventID string `db:"sampling_event_id" ddl:"TEXT REFERENCES checklists(sampling_event_id)" gorm:"type:text"`

	// SpeciesCode is resolved from the record's scientific name.
	SpeciesCode string `db:"species_code" ddl:"TEXT REFERENCES species(species_code)" gorm:"type:text"`

	// SubSpeciesCode is resolved from the subspecies scientific name
	// when present; unresolved subspecies are stored as NULL.
	SubSpeciesCode string `db:"sub_species_code" ddl:"TEXT REFERENCES species(species_code)" gorm:"type:text"`

	ExoticCode string `db:"exotic_code" ddl:"TEXT" gorm:"type:text"`

	// ObservationCount is NULL when the source carries the "X" token,
	// meaning present but not counted.
	ObservationCount int `db:"observation_count" ddl:"INT"`

	BreedingCode     string `db:"breeding_code" ddl:"TEXT" gorm:"type:text"`
	BreedingCategory string `db:"breeding_category" ddl:"TEXT" gorm:"type:text"`
	BehaviorCode     string `db:"behavior_code" ddl:"TEXT" gorm:"type:text"`
	AgeSexCode       string `db:"age_sex_code" ddl:"TEXT" gorm:"type:text"`
	SpeciesComments  string `db:"species_comments" ddl:"TEXT" gorm:"type:text"`
	HasMedia         bool   `db:"has_media" ddl:"BOOL"`
	Approved         bool   `db:"approved" ddl:"BOOL"`
	Reviewed         bool   `db:"reviewed" ddl:"BOOL"`
	Reason           string `db:"reason" ddl:"TEXT" gorm:"type:text"`
}

// SamplingRow is the ephemeral staging shape: locality fields followed
// by checklist fields exactly as emitted by the sampling extract. It is
// unconstrained and unindexed; rows are deduplicated into Locality and
// Checklist and the table is dropped afterwards.
type SamplingRow struct {
	LocalityID string  `db:"locality_id" ddl:"TEXT"`
	Name       string  `db:"name" ddl:"TEXT"`
	Type       string  `db:"type" ddl:"TEXT"`
	Latitude   float64 `db:"latitude" ddl:"FLOAT"`
	Longitude  float64 `db:"longitude" ddl:"FLOAT"`

	SamplingEventID    string  `db:"sampling_event_id" ddl:"TEXT"`
	LastEditedDate     string  `db:"last_edited_date" ddl:"TIMESTAMPTZ"`
	Country            string  `db:"country" ddl:"TEXT"`
	CountryCode        string  `db:"country_code" ddl:"TEXT"`
	State              string  `db:"state" ddl:"TEXT"`
	StateCode          string  `db:"state_code" ddl:"TEXT"`
	County             string  `db:"county" ddl:"TEXT"`
	CountyCode         string  `db:"county_code" ddl:"TEXT"`
	IbaCode            string  `db:"iba_code" ddl:"TEXT"`
	BcrCode            string  `db:"bcr_code" ddl:"TEXT"`
	UsfwsCode          string  `db:"usfws_code" ddl:"TEXT"`
	AtlasBlock         string  `db:"atlas_block" ddl:"TEXT"`
	ObservationDate    string  `db:"observation_date" ddl:"DATE"`
	TimeStarted        string  `db:"time_started" ddl:"TIME"`
	ObserverID         string  `db:"observer_id" ddl:"TEXT"`
	ProtocolType       string  `db:"protocol_type" ddl:"TEXT"`
	ProtocolCode       string  `db:"protocol_code" ddl:"TEXT"`
	ProjectCode        string  `db:"project_code" ddl:"TEXT"`
	DurationMinutes    int     `db:"duration_minutes" ddl:"INT"`
	EffortDistanceKm   float64 `db:"effort_distance_km" ddl:"FLOAT"`
	EffortAreaHa       float64 `db:"effort_area_ha" ddl:"FLOAT"`
	NumberObservers    int     `db:"number_observers" ddl:"INT"`
	AllSpeciesReported bool    `db:"all_species_reported" ddl:"BOOL"`
	GroupIdentifier    string  `db:"group_identifier" ddl:"TEXT"`
	TripComments       string  `db:"trip_comments" ddl:"TEXT"`
}

// ImportRun is an insert-only audit row recorded after every completed
// stage run. The pipeline never reads it back.
type ImportRun struct {
	// ID is a random UUID assigned per stage run.
	ID string `db:"id" ddl:"UUID PRIMARY KEY" gorm:"primaryKey;type:uuid"`

	// Stage is the stage identifier, e.g. "localities".
	Stage string `db:"stage" ddl:"TEXT" gorm:"type:text"`

	// Archive is the path of the processed archive.
	Archive string `db:"archive" ddl:"TEXT" gorm:"type:text"`

	StartedAt   string `db:"started_at" ddl:"TIMESTAMPTZ" gorm:"type:timestamptz"`
	DurationMs  int64  `db:"duration_ms" ddl:"BIGINT"`
	RowsAdded   int64  `db:"rows_added" ddl:"BIGINT"`
	RowsSkipped int64  `db:"rows_skipped" ddl:"BIGINT"`

	// RowsFiltered counts rows dropped by the region and date
	// filters, kept separate from RowsSkipped (unresolved species).
	RowsFiltered int64 `db:"rows_filtered" ddl:"BIGINT"`
}
