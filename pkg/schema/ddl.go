package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE IF NOT EXISTS statement from
// struct tags. Statements are idempotent so every stage can guarantee
// its own target table before writing.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// columnNames lists the db-tagged columns of a model in declaration
// order.
func columnNames(model interface{}) []string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string
	for i := 0; i < t.NumField(); i++ {
		if dbTag := t.Field(i).Tag.Get("db"); dbTag != "" {
			columns = append(columns, dbTag)
		}
	}
	return columns
}

// Locality DDL methods
func (l Locality) TableDDL() string {
	return generateDDL(l, "localities")
}

func (l Locality) TableName() string {
	return "localities"
}

func (l Locality) Columns() []string {
	return columnNames(l)
}

// Checklist DDL methods
func (c Checklist) TableDDL() string {
	return generateDDL(c, "checklists")
}

func (c Checklist) TableName() string {
	return "checklists"
}

func (c Checklist) Columns() []string {
	return columnNames(c)
}

// Species DDL methods
func (s Species) TableDDL() string {
	return generateDDL(s, "species")
}

func (s Species) TableName() string {
	return "species"
}

func (s Species) Columns() []string {
	return columnNames(s)
}

// Observation DDL methods
func (o Observation) TableDDL() string {
	return generateDDL(o, "observations")
}

func (o Observation) TableName() string {
	return "observations"
}

func (o Observation) Columns() []string {
	return columnNames(o)
}

// SamplingRow DDL methods
func (sr SamplingRow) TableDDL() string {
	return generateDDL(sr, "tmp_sampling_table")
}

func (sr SamplingRow) TableName() string {
	return "tmp_sampling_table"
}

func (sr SamplingRow) Columns() []string {
	return columnNames(sr)
}

// ImportRun DDL methods
func (ir ImportRun) TableDDL() string {
	return generateDDL(ir, "import_runs")
}

func (ir ImportRun) TableName() string {
	return "import_runs"
}

func (ir ImportRun) Columns() []string {
	return columnNames(ir)
}
