package domain

import "time"

// DebugInfo замер одного шага сборки ответа, отдается только с ?debug=true
type DebugInfo struct {
	Event   string            `json:"event"`
	Timing  int64             `json:"timingMs"`
	Count   int               `json:"count"`
	Error   string            `json:"error,omitempty"`
	Options map[string]string `json:"options,omitempty"`

	startedAt time.Time
}

func NewDebugInfo(event string) DebugInfo {
	return DebugInfo{Event: event, startedAt: time.Now()}
}

func (d *DebugInfo) Finish(count int, err error) {
	d.Timing = time.Since(d.startedAt).Milliseconds()
	d.Count = count
	if err != nil {
		d.Error = err.Error()
	}
}

func (d *DebugInfo) AddOption(key string, value string) {
	if d.Options == nil {
		d.Options = make(map[string]string)
	}
	d.Options[key] = value
}
