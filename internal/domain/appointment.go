package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment is a concrete booked session between a client and a trainer.
// Date and Time are kept apart as they are entered; DeriveStatus combines them.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Date      *time.Time         `bson:"date,omitempty" json:"date,omitempty"` // calendar day; only Y/M/D are read
	DayOfWeek Weekday            `bson:"dayOfWeek" json:"dayOfWeek"`           // not checked against Date
	Time      string             `bson:"time" json:"time"`                     // "HH:MM"
	Duration  int                `bson:"duration" json:"duration"`             // minutes
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
}

// Start returns the instant the appointment begins in loc. ok is false without a date.
func (a Appointment) Start(loc *time.Location) (start time.Time, ok bool) {
	if a.Date == nil {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := a.Date.Date()
	hour, minute := ParseClock(a.Time)
	return time.Date(y, m, d, hour, minute, 0, 0, loc), true
}

// DeriveStatus reports whether the appointment has finished (now is at or after
// its end) and whether it falls on today's date in loc. Without a date both are false.
func DeriveStatus(a Appointment, now time.Time, loc *time.Location) (isPast, isToday bool) {
	start, ok := a.Start(loc)
	if !ok {
		return false, false
	}
	end := start.Add(time.Duration(a.Duration) * time.Minute)
	isPast = !now.Before(end)

	local := now.In(start.Location())
	isToday = local.Year() == start.Year() && local.YearDay() == start.YearDay()
	return isPast, isToday
}
