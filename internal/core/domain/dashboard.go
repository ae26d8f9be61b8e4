package domain

type DashboardQuery struct {
	View   ViewType
	Bucket StatusBucket
	Search string
	Debug  bool
}

type DashboardItem struct {
	AppointmentRecord
	Bucket   StatusBucket      `json:"bucket"`
	Progress Progress          `json:"progress"`
	Segments []ProgressSegment `json:"segments"`
	Badge    string            `json:"badge,omitempty"`
}

type DashboardView struct {
	View   ViewType             `json:"view"`
	Locked bool                 `json:"locked"`
	Items  []DashboardItem      `json:"items"`
	Total  int                  `json:"total"`
	Counts map[StatusBucket]int `json:"counts"`
	// Размер каждого из двух списков после фильтров роли, для переключателя
	Totals map[ViewType]int `json:"totals"`
	// Одноразовое сообщение для пользователя, если какой-то из списков не загрузился
	Alert string      `json:"alert,omitempty"`
	Debug []DebugInfo `json:"debug,omitempty"`
}
