package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekday uses ISO numbering: Monday is 1, Sunday is 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Weekdays lists the days in schedule order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// ParseWeekday accepts an English day name (case-insensitive, "mon" style prefixes
// allowed) or its ISO number.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if d := Weekday(n); d.Valid() {
			return d, nil
		}
		return 0, fmt.Errorf("invalid weekday %q", s)
	}
	if len(s) >= 3 {
		for _, d := range Weekdays {
			if strings.HasPrefix(weekdayNames[d], s) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// WeekdayOf returns the ISO weekday of t in its own location.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// TrainingSlot is a recurring weekly offering. Two slots are the same slot when
// both time and duration match.
type TrainingSlot struct {
	Time     string `bson:"time" json:"time"`         // "HH:MM"
	Duration int    `bson:"duration" json:"duration"` // minutes
}

// WeeklySchedule holds one slot list per weekday for a trainer. Lists are
// independent: no overlap or duplicate checks happen across or within days.
type WeeklySchedule struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Monday    []TrainingSlot     `bson:"monday" json:"monday"`
	Tuesday   []TrainingSlot     `bson:"tuesday" json:"tuesday"`
	Wednesday []TrainingSlot     `bson:"wednesday" json:"wednesday"`
	Thursday  []TrainingSlot     `bson:"thursday" json:"thursday"`
	Friday    []TrainingSlot     `bson:"friday" json:"friday"`
	Saturday  []TrainingSlot     `bson:"saturday" json:"saturday"`
	Sunday    []TrainingSlot     `bson:"sunday" json:"sunday"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewWeeklySchedule returns a schedule with an empty (non-nil) list for every day.
func NewWeeklySchedule(trainerID primitive.ObjectID) WeeklySchedule {
	s := WeeklySchedule{TrainerID: trainerID}
	for _, d := range Weekdays {
		*s.day(d) = []TrainingSlot{}
	}
	return s
}

func (s *WeeklySchedule) day(d Weekday) *[]TrainingSlot {
	switch d {
	case Monday:
		return &s.Monday
	case Tuesday:
		return &s.Tuesday
	case Wednesday:
		return &s.Wednesday
	case Thursday:
		return &s.Thursday
	case Friday:
		return &s.Friday
	case Saturday:
		return &s.Saturday
	case Sunday:
		return &s.Sunday
	}
	return nil
}

// Slots returns a copy of the list for d. An absent list comes back empty, never nil.
func (s WeeklySchedule) Slots(d Weekday) []TrainingSlot {
	list := s.day(d)
	if list == nil {
		return []TrainingSlot{}
	}
	out := make([]TrainingSlot, len(*list))
	copy(out, *list)
	return out
}

// clone deep-copies every weekday list so the result shares no backing arrays with s.
func (s WeeklySchedule) clone() WeeklySchedule {
	out := s
	for _, d := range Weekdays {
		if src := *s.day(d); src != nil {
			*out.day(d) = append([]TrainingSlot(nil), src...)
		}
	}
	return out
}

// Equal compares slot lists day by day. Nil and empty lists are equal.
func (s WeeklySchedule) Equal(o WeeklySchedule) bool {
	if s.TrainerID != o.TrainerID {
		return false
	}
	for _, d := range Weekdays {
		a, b := *s.day(d), *o.day(d)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// AddSlot returns a copy of s with slot appended to the list for d.
// An invalid weekday leaves the schedule unchanged.
func AddSlot(s WeeklySchedule, d Weekday, slot TrainingSlot) WeeklySchedule {
	out := s.clone()
	list := out.day(d)
	if list == nil {
		return out
	}
	*list = append(*list, slot)
	return out
}

// RemoveSlot returns a copy of s without the first slot on d equal to slot.
// Removing a slot that is not there is a no-op.
func RemoveSlot(s WeeklySchedule, d Weekday, slot TrainingSlot) WeeklySchedule {
	out := s.clone()
	list := out.day(d)
	if list == nil {
		return out
	}
	for i, existing := range *list {
		if existing == slot {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			break
		}
	}
	return out
}

// ParseClock splits an "HH:MM" string. Missing or non-numeric parts read as 0,
// so a garbled value degrades to midnight instead of failing.
func ParseClock(s string) (hour, minute int) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) > 0 {
		if h, err := strconv.Atoi(parts[0]); err == nil {
			hour = h
		}
	}
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil {
			minute = m
		}
	}
	return hour, minute
}

// ValidClock reports whether s is a strict 24h "HH:MM" value.
func ValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}
