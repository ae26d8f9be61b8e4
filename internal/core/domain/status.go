package domain

import (
	"encoding/json"

	"github.com/suchimauz/clinic-intake-router/internal/core/json_types"
)

// StatusBucket группа для фильтрации списка записей по entryStatus
type StatusBucket string

const (
	StatusBucketActive    StatusBucket = "Active"
	StatusBucketOngoing   StatusBucket = "Ongoing"
	StatusBucketCompleted StatusBucket = "Completed"
	StatusBucketUnknown   StatusBucket = "Unknown"
)

var FilterableBuckets = []StatusBucket{
	StatusBucketActive,
	StatusBucketOngoing,
	StatusBucketCompleted,
}

func (b StatusBucket) IsFilterable() bool {
	return b == StatusBucketActive || b == StatusBucketOngoing || b == StatusBucketCompleted
}

// Статусы ниже приводятся к строгим значениям при разборе ответа сервера.
// Сервер присылает их как попало: true, "filled", "Taken", "complete", null.

type InitialStatus string

const (
	InitialStatusFilled    InitialStatus = "filled"
	InitialStatusNotFilled InitialStatus = "not_filled"
)

func ParseInitialStatus(raw json_types.Loose) InitialStatus {
	if raw.IsTrue() || raw.EqualFold("filled") {
		return InitialStatusFilled
	}
	return InitialStatusNotFilled
}

func (s *InitialStatus) UnmarshalJSON(data []byte) error {
	var raw json_types.Loose
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseInitialStatus(raw)
	return nil
}

func (s InitialStatus) Done() bool {
	return s == InitialStatusFilled
}

type ConsentStatus string

const (
	ConsentStatusComplete   ConsentStatus = "complete"
	ConsentStatusIncomplete ConsentStatus = "incomplete"
)

func ParseConsentStatus(raw json_types.Loose) ConsentStatus {
	if raw.EqualFold("complete") {
		return ConsentStatusComplete
	}
	return ConsentStatusIncomplete
}

func (s *ConsentStatus) UnmarshalJSON(data []byte) error {
	var raw json_types.Loose
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseConsentStatus(raw)
	return nil
}

func (s ConsentStatus) Done() bool {
	return s == ConsentStatusComplete
}

type PhotoStatus string

const (
	PhotoStatusTaken    PhotoStatus = "taken"
	PhotoStatusNotTaken PhotoStatus = "not_taken"
)

func ParsePhotoStatus(raw json_types.Loose) PhotoStatus {
	if raw.EqualFold("taken") {
		return PhotoStatusTaken
	}
	return PhotoStatusNotTaken
}

func (s *PhotoStatus) UnmarshalJSON(data []byte) error {
	var raw json_types.Loose
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParsePhotoStatus(raw)
	return nil
}

func (s PhotoStatus) Done() bool {
	return s == PhotoStatusTaken
}
