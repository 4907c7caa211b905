package model

// Stage is a product lifecycle state. The ordinal values are an external
// contract shared with indexers and must not change.
type Stage int

const (
	StageCreated      Stage = 0
	StageInProduction Stage = 1
	StageManufactured Stage = 2
	StageInTransit    Stage = 3
	StageDelivered    Stage = 4
	StageForSale      Stage = 5
	StageSold         Stage = 6
	StageReturned     Stage = 7
	StageRecalled     Stage = 8
)

var stageNames = map[Stage]string{
	StageCreated:      "Created",
	StageInProduction: "InProduction",
	StageManufactured: "Manufactured",
	StageInTransit:    "InTransit",
	StageDelivered:    "Delivered",
	StageForSale:      "ForSale",
	StageSold:         "Sold",
	StageReturned:     "Returned",
	StageRecalled:     "Recalled",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Unknown"
}

func (s Stage) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

// stageTransitions is the adjacency table for UpdateStage. Returned and
// Recalled are reachable only through the return/recall workflow, which
// forces the transition and bypasses this table.
var stageTransitions = map[Stage][]Stage{
	StageCreated:      {StageInProduction, StageManufactured},
	StageInProduction: {StageManufactured, StageInTransit},
	StageManufactured: {StageInTransit, StageDelivered, StageForSale},
	StageInTransit:    {StageDelivered},
	StageDelivered:    {StageForSale, StageSold},
	StageForSale:      {StageSold},
	StageSold:         {},
	StageReturned:     {},
	StageRecalled:     {},
}

// CanTransition reports whether UpdateStage may move a product from s to
// next. Re-issuing the current stage is not a valid transition.
func (s Stage) CanTransition(next Stage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
