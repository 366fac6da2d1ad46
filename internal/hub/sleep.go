package hub

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

const SleepLogsKey = "sleep_logs"

// SleepEntry is one night of sleep. Date is the night the sleep started.
// Quality runs from 1 to 5; 0 means unrated.
type SleepEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Date      string    `json:"date" yaml:"date"`
	Bedtime   string    `json:"bedtime" yaml:"bedtime"`
	WakeTime  string    `json:"wakeTime" yaml:"wakeTime"`
	Quality   int       `json:"quality,omitempty" yaml:"quality,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Duration is the time asleep. A wake time earlier than the bedtime is on the next day.
func (e SleepEntry) Duration() time.Duration {
	bed, err := parseClock("bedtime", e.Bedtime)
	if err != nil {
		return 0
	}
	wake, err := parseClock("wakeTime", e.WakeTime)
	if err != nil {
		return 0
	}
	if wake <= bed {
		wake += 24 * time.Hour
	}
	return wake - bed
}

// SleepWeeks maps an ISO week id such as "2024-W03" to the nights logged in it.
type SleepWeeks map[string][]SleepEntry

type SleepInput struct {
	Date     string
	Bedtime  string
	WakeTime string
	Quality  int
	Notes    string
}

// WeekSummary aggregates the nights of one week.
type WeekSummary struct {
	Week            string        `json:"week"`
	Nights          int           `json:"nights"`
	AverageDuration time.Duration `json:"averageDuration"`
	AverageQuality  float64       `json:"averageQuality"`
}

// SleepTracker stores nights grouped by week under the "sleep_logs" key.
type SleepTracker struct {
	weeks *Document[SleepWeeks]
	clock Clock
	ids   IDGenerator
}

func NewSleepTracker(d Deps) *SleepTracker {
	return &SleepTracker{
		weeks: NewDocument[SleepWeeks](d.Storage, SleepLogsKey, d.Codec, d.Logger),
		clock: d.Clock,
		ids:   d.IDs,
	}
}

// Log records a night. An empty date means today.
func (s *SleepTracker) Log(ctx context.Context, in SleepInput) (SleepEntry, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = formatDate(s.clock.Now())
	}
	day, err := parseDate("date", date)
	if err != nil {
		return SleepEntry{}, err
	}
	if _, err := parseClock("bedtime", in.Bedtime); err != nil {
		return SleepEntry{}, err
	}
	if _, err := parseClock("wakeTime", in.WakeTime); err != nil {
		return SleepEntry{}, err
	}
	if in.Quality < 0 || in.Quality > 5 {
		return SleepEntry{}, invalid("quality", "must be between 1 and 5, got %d", in.Quality)
	}

	entry := SleepEntry{
		ID:        s.ids.New(),
		Date:      date,
		Bedtime:   strings.TrimSpace(in.Bedtime),
		WakeTime:  strings.TrimSpace(in.WakeTime),
		Quality:   in.Quality,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.clock.Now(),
	}
	week := WeekID(day)
	_, err = s.weeks.Mutate(ctx, func(w SleepWeeks) (SleepWeeks, error) {
		if w == nil {
			w = SleepWeeks{}
		}
		w[week] = append(w[week], entry)
		return w, nil
	})
	if err != nil {
		return SleepEntry{}, err
	}
	return entry, nil
}

// Week returns the nights logged in the given week, ordered by date.
func (s *SleepTracker) Week(ctx context.Context, weekID string) ([]SleepEntry, error) {
	w, err := s.weeks.Get(ctx)
	if err != nil {
		return nil, err
	}
	entries := w[weekID]
	slices.SortStableFunc(entries, func(a, b SleepEntry) int { return strings.Compare(a.Date, b.Date) })
	return entries, nil
}

// Weeks returns every week id with logged nights, most recent first.
func (s *SleepTracker) Weeks(ctx context.Context) ([]string, error) {
	w, err := s.weeks.Get(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(w))
	for id := range w {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	slices.Reverse(ids)
	return ids, nil
}

// Delete removes a night from whichever week holds it. Empty weeks are dropped.
func (s *SleepTracker) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	_, err := s.weeks.Mutate(ctx, func(w SleepWeeks) (SleepWeeks, error) {
		for week, entries := range w {
			kept := slices.DeleteFunc(entries, func(e SleepEntry) bool { return e.ID == id })
			if len(kept) == len(entries) {
				continue
			}
			found = true
			if len(kept) == 0 {
				delete(w, week)
			} else {
				w[week] = kept
			}
		}
		if !found {
			return w, errUnchanged
		}
		return w, nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Summary aggregates the nights of one week. Unrated nights do not count towards quality.
func (s *SleepTracker) Summary(ctx context.Context, weekID string) (WeekSummary, error) {
	entries, err := s.Week(ctx, weekID)
	if err != nil {
		return WeekSummary{}, err
	}
	return SummarizeWeek(weekID, entries), nil
}

func SummarizeWeek(weekID string, entries []SleepEntry) WeekSummary {
	sum := WeekSummary{Week: weekID, Nights: len(entries)}
	if len(entries) == 0 {
		return sum
	}
	var total time.Duration
	rated, quality := 0, 0
	for _, e := range entries {
		total += e.Duration()
		if e.Quality > 0 {
			rated++
			quality += e.Quality
		}
	}
	sum.AverageDuration = (total / time.Duration(len(entries))).Round(time.Minute)
	if rated > 0 {
		sum.AverageQuality = float64(quality) / float64(rated)
	}
	return sum
}
