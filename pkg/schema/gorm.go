package schema

import (
	"gorm.io/gorm"
)

// AllModels returns the persistent schema models for GORM AutoMigrate.
// SamplingRow is excluded: the staging table belongs to the import
// pipeline and is created and dropped by its stages.
func AllModels() []interface{} {
	return []interface{}{
		&Locality{},
		&Checklist{},
		&Species{},
		&Observation{},
		&ImportRun{},
	}
}

// Migrate runs GORM AutoMigrate to create or update the schema.
// Foreign-key constraints between the tables are applied separately by
// the schema manager.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
