package model

import "time"

// TimeSlot is a specific date/time window of an activity. Each slot owns
// its capacity counter; two slots of the same activity never contend.
//
// Fields:
//  ID             – primary key identifier.
//  ActivityID     – owning activity.
//  SlotDate       – calendar day of the slot (date only, UTC).
//  StartTime      – wall-clock start, "HH:MM" 24h.
//  EndTime        – wall-clock end, "HH:MM" 24h.
//  TotalSpots     – initial capacity, used as the release ceiling.
//  AvailableSpots – remaining capacity.
type TimeSlot struct {
	ID             uint64    `json:"id"`
	ActivityID     uint64    `json:"activityId"`
	SlotDate       time.Time `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	TotalSpots     uint32    `json:"totalSpots"`
	AvailableSpots uint32    `json:"availableSpots"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// StartsAt combines SlotDate and StartTime into a single UTC instant.
// A malformed StartTime falls back to midnight of the slot day.
func (s *TimeSlot) StartsAt() time.Time {
	y, m, d := s.SlotDate.UTC().Date()
	at := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t, err := time.Parse("15:04", s.StartTime); err == nil {
		at = at.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	}
	return at
}

// Expired reports whether the slot's start instant has already passed.
func (s *TimeSlot) Expired(now time.Time) bool {
	return !s.StartsAt().After(now)
}
