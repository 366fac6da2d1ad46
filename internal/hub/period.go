package hub

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"
)

const PeriodDataKey = "period_data"

const (
	// DefaultCycleLength is assumed until two periods have been logged.
	DefaultCycleLength = 28
	// DefaultPeriodLength is assumed until a period has an end date.
	DefaultPeriodLength = 5
)

// Period is one logged period. EndDate stays empty while the period is ongoing.
type Period struct {
	ID        string    `json:"id" yaml:"id"`
	StartDate string    `json:"startDate" yaml:"startDate"`
	EndDate   string    `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func (p Period) RecordID() string { return p.ID }

// PeriodStats is what the tracker shows on its overview.
type PeriodStats struct {
	Periods             int    `json:"periods"`
	AverageCycleLength  int    `json:"averageCycleLength"`
	AveragePeriodLength int    `json:"averagePeriodLength"`
	NextPeriod          string `json:"nextPeriod,omitempty"`
	CycleDay            int    `json:"cycleDay,omitempty"`
}

// PeriodTracker stores periods under the "period_data" key.
type PeriodTracker struct {
	periods *Collection[Period]
	clock   Clock
	ids     IDGenerator
}

func NewPeriodTracker(d Deps) *PeriodTracker {
	return &PeriodTracker{
		periods: NewCollection[Period](d.Storage, PeriodDataKey, d.Codec, d.Logger),
		clock:   d.Clock,
		ids:     d.IDs,
	}
}

// Add logs a period. endDate may be empty for an ongoing period.
func (t *PeriodTracker) Add(ctx context.Context, startDate, endDate, notes string) (Period, error) {
	startDate, endDate = strings.TrimSpace(startDate), strings.TrimSpace(endDate)
	if err := checkPeriodRange(startDate, endDate); err != nil {
		return Period{}, err
	}
	p := Period{
		ID:        t.ids.New(),
		StartDate: startDate,
		EndDate:   endDate,
		Notes:     strings.TrimSpace(notes),
		CreatedAt: t.clock.Now(),
	}
	if err := t.periods.Insert(ctx, p, Append); err != nil {
		return Period{}, err
	}
	return p, nil
}

// End sets the end date of a period.
func (t *PeriodTracker) End(ctx context.Context, id, endDate string) (Period, error) {
	endDate = strings.TrimSpace(endDate)
	if endDate == "" {
		return Period{}, invalid("endDate", "must not be blank")
	}
	return t.periods.Update(ctx, id, func(p Period) (Period, error) {
		if err := checkPeriodRange(p.StartDate, endDate); err != nil {
			return p, err
		}
		p.EndDate = endDate
		return p, nil
	})
}

func (t *PeriodTracker) Delete(ctx context.Context, id string) (bool, error) {
	return t.periods.Delete(ctx, id)
}

// List returns the periods ordered by start date.
func (t *PeriodTracker) List(ctx context.Context) ([]Period, error) {
	periods, err := t.periods.List(ctx)
	if err != nil {
		return nil, err
	}
	sortPeriods(periods)
	return periods, nil
}

// Stats computes the cycle overview as of today.
func (t *PeriodTracker) Stats(ctx context.Context) (PeriodStats, error) {
	periods, err := t.periods.List(ctx)
	if err != nil {
		return PeriodStats{}, err
	}
	stats := PeriodStats{
		Periods:             len(periods),
		AverageCycleLength:  AverageCycleLength(periods),
		AveragePeriodLength: AveragePeriodLength(periods),
	}
	if next, ok := PredictNextPeriod(periods); ok {
		stats.NextPeriod = formatDate(next)
	}
	stats.CycleDay = CycleDay(periods, t.clock.Now())
	return stats, nil
}

// AverageCycleLength is the rounded mean number of days between consecutive
// start dates, or DefaultCycleLength with fewer than two periods.
func AverageCycleLength(periods []Period) int {
	starts := startDates(periods)
	if len(starts) < 2 {
		return DefaultCycleLength
	}
	total := 0
	for i := 1; i < len(starts); i++ {
		total += daysBetween(starts[i-1], starts[i])
	}
	return int(math.Round(float64(total) / float64(len(starts)-1)))
}

// AveragePeriodLength is the rounded mean length in days of the periods that
// have ended, counting both the first and last day, or DefaultPeriodLength if none have.
func AveragePeriodLength(periods []Period) int {
	total, n := 0, 0
	for _, p := range periods {
		if p.EndDate == "" {
			continue
		}
		start, err := parseDate("startDate", p.StartDate)
		if err != nil {
			continue
		}
		end, err := parseDate("endDate", p.EndDate)
		if err != nil {
			continue
		}
		total += daysBetween(start, end) + 1
		n++
	}
	if n == 0 {
		return DefaultPeriodLength
	}
	return int(math.Round(float64(total) / float64(n)))
}

// PredictNextPeriod is the latest start date plus the average cycle length.
func PredictNextPeriod(periods []Period) (time.Time, bool) {
	starts := startDates(periods)
	if len(starts) == 0 {
		return time.Time{}, false
	}
	return starts[len(starts)-1].AddDate(0, 0, AverageCycleLength(periods)), true
}

// CycleDay returns the 1-based day of the cycle that contains today, or 0 if
// no period started on or before today.
func CycleDay(periods []Period, today time.Time) int {
	day := dateOf(today)
	var last time.Time
	for _, s := range startDates(periods) {
		if s.After(day) {
			break
		}
		last = s
	}
	if last.IsZero() {
		return 0
	}
	return daysBetween(last, day) + 1
}

func startDates(periods []Period) []time.Time {
	starts := make([]time.Time, 0, len(periods))
	for _, p := range periods {
		if s, err := parseDate("startDate", p.StartDate); err == nil {
			starts = append(starts, s)
		}
	}
	slices.SortFunc(starts, func(a, b time.Time) int { return a.Compare(b) })
	return starts
}

func sortPeriods(periods []Period) {
	slices.SortStableFunc(periods, func(a, b Period) int { return strings.Compare(a.StartDate, b.StartDate) })
}

func checkPeriodRange(startDate, endDate string) error {
	start, err := parseDate("startDate", startDate)
	if err != nil {
		return err
	}
	if endDate == "" {
		return nil
	}
	end, err := parseDate("endDate", endDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return invalid("endDate", "%s is before start date %s", endDate, startDate)
	}
	return nil
}
