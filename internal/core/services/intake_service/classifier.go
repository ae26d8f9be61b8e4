package intake_service

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

// NormalizeStatus обрезает пробелы по краям, приводит к нижнему регистру
// и убирает пробелы внутри: " On Going " -> "ongoing"
func NormalizeStatus(status string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, status)
}

func Classify(entryStatus string) domain.StatusBucket {
	switch NormalizeStatus(entryStatus) {
	case "active":
		return domain.StatusBucketActive
	case "ongoing":
		return domain.StatusBucketOngoing
	case "completed":
		return domain.StatusBucketCompleted
	}
	return domain.StatusBucketUnknown
}

func ClassifyRecord(record domain.AppointmentRecord) domain.StatusBucket {
	return Classify(record.EntryStatus.String())
}

// FilterByBucket пустой фильтр возвращает список без изменений.
// Записи с нераспознанным статусом попадают только в нефильтрованный список.
func FilterByBucket(records []domain.AppointmentRecord, bucket domain.StatusBucket) []domain.AppointmentRecord {
	if bucket == "" {
		return records
	}
	return lo.Filter(records, func(record domain.AppointmentRecord, _ int) bool {
		return ClassifyRecord(record) == bucket
	})
}

func CountByBucket(records []domain.AppointmentRecord) map[domain.StatusBucket]int {
	counts := make(map[domain.StatusBucket]int, len(domain.FilterableBuckets))
	for _, bucket := range domain.FilterableBuckets {
		counts[bucket] = 0
	}
	for bucket, count := range lo.CountValuesBy(records, ClassifyRecord) {
		if bucket.IsFilterable() {
			counts[bucket] = count
		}
	}
	return counts
}
