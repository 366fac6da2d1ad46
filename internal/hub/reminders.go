package hub

import (
	"context"
	"sort"
	"strings"
	"time"
)

const RemindersKey = "reminders"

// Repeat controls whether a reminder fires once or every day.
type Repeat string

const (
	RepeatNone  Repeat = "none"
	RepeatDaily Repeat = "daily"
)

// Reminder fires at Time on Date, or every day at Time when Repeat is daily.
// A one-off reminder without a Date fires at the next occurrence of Time.
type Reminder struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Date      string    `json:"date,omitempty" yaml:"date,omitempty"`
	Time      string    `json:"time" yaml:"time"`
	Repeat    Repeat    `json:"repeat" yaml:"repeat"`
	Enabled   bool      `json:"enabled" yaml:"enabled"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func (r Reminder) RecordID() string { return r.ID }

type ReminderInput struct {
	Title  string
	Notes  string
	Date   string
	Time   string
	Repeat Repeat
}

func (in ReminderInput) normalize() (ReminderInput, error) {
	var err error
	if in.Title, err = required("title", in.Title); err != nil {
		return in, err
	}
	in.Notes = strings.TrimSpace(in.Notes)
	in.Time = strings.TrimSpace(in.Time)
	if _, err := parseClock("time", in.Time); err != nil {
		return in, err
	}
	in.Date = strings.TrimSpace(in.Date)
	if in.Date != "" {
		if _, err := parseDate("date", in.Date); err != nil {
			return in, err
		}
	}
	switch in.Repeat {
	case "":
		in.Repeat = RepeatNone
	case RepeatNone, RepeatDaily:
	default:
		return in, invalid("repeat", "must be %q or %q", RepeatNone, RepeatDaily)
	}
	return in, nil
}

// Reminders stores reminders under the "reminders" key.
type Reminders struct {
	reminders *Collection[Reminder]
	clock     Clock
	ids       IDGenerator
}

func NewReminders(d Deps) *Reminders {
	return &Reminders{
		reminders: NewCollection[Reminder](d.Storage, RemindersKey, d.Codec, d.Logger),
		clock:     d.Clock,
		ids:       d.IDs,
	}
}

// Add creates an enabled reminder.
func (r *Reminders) Add(ctx context.Context, in ReminderInput) (Reminder, error) {
	in, err := in.normalize()
	if err != nil {
		return Reminder{}, err
	}
	rem := Reminder{
		ID:        r.ids.New(),
		Title:     in.Title,
		Notes:     in.Notes,
		Date:      in.Date,
		Time:      in.Time,
		Repeat:    in.Repeat,
		Enabled:   true,
		CreatedAt: r.clock.Now(),
	}
	if err := r.reminders.Insert(ctx, rem, Append); err != nil {
		return Reminder{}, err
	}
	return rem, nil
}

// Toggle flips whether a reminder is enabled.
func (r *Reminders) Toggle(ctx context.Context, id string) (Reminder, error) {
	return r.reminders.Update(ctx, id, func(rem Reminder) (Reminder, error) {
		rem.Enabled = !rem.Enabled
		return rem, nil
	})
}

func (r *Reminders) Delete(ctx context.Context, id string) (bool, error) {
	return r.reminders.Delete(ctx, id)
}

func (r *Reminders) List(ctx context.Context) ([]Reminder, error) {
	return r.reminders.List(ctx)
}

// Due is a reminder paired with the moment it fires next.
type Due struct {
	Reminder Reminder
	At       time.Time
}

// Upcoming returns the enabled reminders firing within window of now, soonest first.
func (r *Reminders) Upcoming(ctx context.Context, now time.Time, window time.Duration) ([]Due, error) {
	rems, err := r.reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	var due []Due
	for _, rem := range rems {
		if !rem.Enabled {
			continue
		}
		at, ok := NextOccurrence(rem, now)
		if !ok || at.After(now.Add(window)) {
			continue
		}
		due = append(due, Due{Reminder: rem, At: at})
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].At.Before(due[j].At) })
	return due, nil
}

// NextOccurrence returns when rem next fires at or after now, in now's location.
// A one-off reminder whose date and time have passed never fires again.
func NextOccurrence(rem Reminder, now time.Time) (time.Time, bool) {
	hour, minute, err := clockParts("time", rem.Time)
	if err != nil {
		return time.Time{}, false
	}
	// Wall-clock time on day, so DST changes never shift the reminder.
	atDay := func(day time.Time) time.Time {
		y, m, d := day.Date()
		return time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	}

	if rem.Repeat != RepeatDaily && rem.Date != "" {
		day, err := parseDate("date", rem.Date)
		if err != nil {
			return time.Time{}, false
		}
		at := atDay(day)
		if at.Before(now) {
			return time.Time{}, false
		}
		return at, true
	}

	at := atDay(now)
	if at.Before(now) {
		at = atDay(now.AddDate(0, 0, 1))
	}
	return at, true
}
