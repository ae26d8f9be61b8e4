package domain

type Progress struct {
	InitialDone bool `json:"initialDone"`
	DailyDone   bool `json:"dailyDone"`
	PhotosDone  bool `json:"photosDone"`

	HasBeforePhoto bool `json:"hasBeforePhoto"`
	HasAfterPhoto  bool `json:"hasAfterPhoto"`
}

type ProgressSegment struct {
	Label  string `json:"label"`
	Filled bool   `json:"filled"`
}

// Segments сегменты индикатора всегда в порядке Initial -> Daily -> Photos
func (p Progress) Segments() []ProgressSegment {
	return []ProgressSegment{
		{Label: "Initial", Filled: p.InitialDone},
		{Label: "Daily", Filled: p.DailyDone},
		{Label: "Photos", Filled: p.PhotosDone},
	}
}

func (p Progress) IntakeComplete() bool {
	return p.InitialDone && p.DailyDone
}
