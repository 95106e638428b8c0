package services

import (
	"time"
)

// ActivityStore is the one query the checker needs from a content
// store.
type ActivityStore interface {
	ExistsByUserRange(userID string, start time.Time, end time.Time) (bool, error)
}

// ActivityService answers "did this user log any wellness activity on
// that day". Only workouts, runs, meals, journals and prayers count as
// activity; notes, plans and the social kinds do not.
type ActivityService struct {
	stores   []ActivityStore
	location *time.Location
}

func NewActivityService(location *time.Location, workouts ActivityStore, runs ActivityStore, meals ActivityStore, journals ActivityStore, prayers ActivityStore) *ActivityService {
	if location == nil {
		location = time.UTC
	}
	return &ActivityService{
		stores:   []ActivityStore{workouts, runs, meals, journals, prayers},
		location: location,
	}
}

// HasActivityOn checks the stores one by one and stops at the first
// hit.
func (service *ActivityService) HasActivityOn(userID string, day time.Time) (bool, error) {
	start, end := DayRange(day, service.location)
	for _, store := range service.stores {
		exists, err := store.ExistsByUserRange(userID, start, end)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
