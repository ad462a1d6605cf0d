package ebirddb

import (
	"fmt"

	"github.com/gnames/ebirddb/pkg/errcode"
	"github.com/gnames/gn"
)

// Stage is one of the six ordered, independently re-runnable units of
// the import pipeline, plus Full which runs them all in order. Each
// stage depends on the committed output of the previous ones:
// checklists need localities, observations need checklists, species
// and the code map.
type Stage int

const (
	// StageCopySampling streams sampling records into the staging table.
	StageCopySampling Stage = iota
	// StageLocalities derives unique localities from staging.
	StageLocalities
	// StageChecklists derives unique checklists from staging.
	StageChecklists
	// StageDropSampling discards the staging table.
	StageDropSampling
	// StageSpecies loads the eBird taxonomy.
	StageSpecies
	// StageObservations streams, filters and resolves observations.
	StageObservations
	// StageFull runs all six stages in order.
	StageFull
)

var stageNames = map[Stage]string{
	StageCopySampling: "copy_sampling",
	StageLocalities:   "localities",
	StageChecklists:   "checklists",
	StageDropSampling: "drop_sampling",
	StageSpecies:      "species",
	StageObservations: "observations",
	StageFull:         "full",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Sequence returns the ordered stages a run of s expands to: the six
// pipeline stages for Full, or s alone.
func (s Stage) Sequence() []Stage {
	if s == StageFull {
		return []Stage{
			StageCopySampling,
			StageLocalities,
			StageChecklists,
			StageDropSampling,
			StageSpecies,
			StageObservations,
		}
	}
	return []Stage{s}
}

// ParseStage converts a stage identifier from the CLI into a Stage.
func ParseStage(s string) (Stage, error) {
	for stage, name := range stageNames {
		if name == s {
			return stage, nil
		}
	}
	return StageFull, unknownStageError(s)
}

func unknownStageError(s string) error {
	msg := `Unknown import stage <em>%s</em>

<em>Valid stages are:</em>
  copy_sampling, localities, checklists, drop_sampling,
  species, observations, full`

	vars := []any{s}

	return &gn.Error{
		Code: errcode.ImportUnknownStageError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown stage: %s", s),
	}
}
