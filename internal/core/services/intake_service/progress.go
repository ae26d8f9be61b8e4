package intake_service

import "github.com/suchimauz/clinic-intake-router/internal/core/domain"

// Evaluate считает три независимых флага прогресса. Порядок этапов не проверяется:
// источник истины сервер, несогласованные комбинации не исправляем.
func Evaluate(record domain.AppointmentRecord) domain.Progress {
	hasBeforePhoto := record.PhotoStatus.Done() || record.BeforePhotoStatus.Done()
	hasAfterPhoto := record.AfterPhotoStatus.Done()

	return domain.Progress{
		InitialDone:    record.InitialStatus.Done(),
		DailyDone:      record.ConsentStatus.Done(),
		PhotosDone:     hasBeforePhoto || hasAfterPhoto,
		HasBeforePhoto: hasBeforePhoto,
		HasAfterPhoto:  hasAfterPhoto,
	}
}
