package hub

import (
	"context"
	"slices"
	"strings"
	"time"
)

const CalendarEventsKey = "calendar_events"

// CalendarEvent is an all-day event when Time is empty.
type CalendarEvent struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Date      string    `json:"date" yaml:"date"`
	Time      string    `json:"time,omitempty" yaml:"time,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func (e CalendarEvent) RecordID() string { return e.ID }

type EventInput struct {
	Title string
	Date  string
	Time  string
	Notes string
}

func (in EventInput) normalize() (EventInput, error) {
	var err error
	if in.Title, err = required("title", in.Title); err != nil {
		return in, err
	}
	in.Date = strings.TrimSpace(in.Date)
	if _, err := parseDate("date", in.Date); err != nil {
		return in, err
	}
	in.Time = strings.TrimSpace(in.Time)
	if in.Time != "" {
		if _, err := parseClock("time", in.Time); err != nil {
			return in, err
		}
	}
	in.Notes = strings.TrimSpace(in.Notes)
	return in, nil
}

// Calendar stores events under the "calendar_events" key.
type Calendar struct {
	events *Collection[CalendarEvent]
	clock  Clock
	ids    IDGenerator
}

func NewCalendar(d Deps) *Calendar {
	return &Calendar{
		events: NewCollection[CalendarEvent](d.Storage, CalendarEventsKey, d.Codec, d.Logger),
		clock:  d.Clock,
		ids:    d.IDs,
	}
}

func (c *Calendar) Add(ctx context.Context, in EventInput) (CalendarEvent, error) {
	in, err := in.normalize()
	if err != nil {
		return CalendarEvent{}, err
	}
	now := c.clock.Now()
	ev := CalendarEvent{
		ID:        c.ids.New(),
		Title:     in.Title,
		Date:      in.Date,
		Time:      in.Time,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.events.Insert(ctx, ev, Append); err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

func (c *Calendar) Update(ctx context.Context, id string, in EventInput) (CalendarEvent, error) {
	in, err := in.normalize()
	if err != nil {
		return CalendarEvent{}, err
	}
	return c.events.Update(ctx, id, func(ev CalendarEvent) (CalendarEvent, error) {
		ev.Title = in.Title
		ev.Date = in.Date
		ev.Time = in.Time
		ev.Notes = in.Notes
		ev.UpdatedAt = c.clock.Now()
		return ev, nil
	})
}

func (c *Calendar) Get(ctx context.Context, id string) (CalendarEvent, error) {
	return c.events.Get(ctx, id)
}

func (c *Calendar) Delete(ctx context.Context, id string) (bool, error) {
	return c.events.Delete(ctx, id)
}

// List returns every event in chronological order. All-day events sort first.
func (c *Calendar) List(ctx context.Context) ([]CalendarEvent, error) {
	return c.between(ctx, "", "")
}

func (c *Calendar) OnDate(ctx context.Context, date string) ([]CalendarEvent, error) {
	return c.Between(ctx, date, date)
}

// Between returns the events dated from..to inclusive, in chronological order.
func (c *Calendar) Between(ctx context.Context, from, to string) ([]CalendarEvent, error) {
	if _, err := parseDate("from", from); err != nil {
		return nil, err
	}
	if _, err := parseDate("to", to); err != nil {
		return nil, err
	}
	return c.between(ctx, strings.TrimSpace(from), strings.TrimSpace(to))
}

func (c *Calendar) between(ctx context.Context, from, to string) ([]CalendarEvent, error) {
	events, err := c.events.List(ctx)
	if err != nil {
		return nil, err
	}
	events = slices.DeleteFunc(events, func(ev CalendarEvent) bool {
		return (from != "" && ev.Date < from) || (to != "" && ev.Date > to)
	})
	slices.SortStableFunc(events, func(a, b CalendarEvent) int {
		if n := strings.Compare(a.Date, b.Date); n != 0 {
			return n
		}
		return strings.Compare(a.Time, b.Time)
	})
	return events, nil
}
