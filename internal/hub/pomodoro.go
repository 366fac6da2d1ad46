package hub

import (
	"context"
	"time"
)

const PomodoroSessionsKey = "pomodoro_sessions"

// SessionKind is the phase a pomodoro session covered.
type SessionKind string

const (
	Focus      SessionKind = "focus"
	ShortBreak SessionKind = "short_break"
	LongBreak  SessionKind = "long_break"
)

// LongBreakEvery is how many completed focus sessions earn a long break.
const LongBreakEvery = 4

// DefaultMinutes returns the standard length of a phase.
func (k SessionKind) DefaultMinutes() int {
	switch k {
	case ShortBreak:
		return 5
	case LongBreak:
		return 15
	default:
		return 25
	}
}

func (k SessionKind) valid() bool {
	return k == Focus || k == ShortBreak || k == LongBreak
}

type PomodoroSession struct {
	ID              string      `json:"id" yaml:"id"`
	Kind            SessionKind `json:"kind" yaml:"kind"`
	StartedAt       time.Time   `json:"startedAt" yaml:"startedAt"`
	DurationMinutes int         `json:"durationMinutes" yaml:"durationMinutes"`
	Completed       bool        `json:"completed" yaml:"completed"`
}

func (s PomodoroSession) RecordID() string { return s.ID }

// DayStats summarizes the focus work of one day.
type DayStats struct {
	Date          string `json:"date"`
	Sessions      int    `json:"sessions"`
	FocusSessions int    `json:"focusSessions"`
	FocusMinutes  int    `json:"focusMinutes"`
}

// Pomodoro stores finished or abandoned sessions under the "pomodoro_sessions" key.
type Pomodoro struct {
	sessions *Collection[PomodoroSession]
	clock    Clock
	ids      IDGenerator
}

func NewPomodoro(d Deps) *Pomodoro {
	return &Pomodoro{
		sessions: NewCollection[PomodoroSession](d.Storage, PomodoroSessionsKey, d.Codec, d.Logger),
		clock:    d.Clock,
		ids:      d.IDs,
	}
}

// Record stores a session that started at startedAt, or now if startedAt is zero.
// A zero minutes uses the phase's default length.
func (p *Pomodoro) Record(ctx context.Context, kind SessionKind, startedAt time.Time, minutes int, completed bool) (PomodoroSession, error) {
	if !kind.valid() {
		return PomodoroSession{}, invalid("kind", "must be %q, %q or %q", Focus, ShortBreak, LongBreak)
	}
	if minutes < 0 {
		return PomodoroSession{}, invalid("durationMinutes", "must not be negative")
	}
	if minutes == 0 {
		minutes = kind.DefaultMinutes()
	}
	if startedAt.IsZero() {
		startedAt = p.clock.Now()
	}
	s := PomodoroSession{
		ID:              p.ids.New(),
		Kind:            kind,
		StartedAt:       startedAt,
		DurationMinutes: minutes,
		Completed:       completed,
	}
	if err := p.sessions.Insert(ctx, s, Append); err != nil {
		return PomodoroSession{}, err
	}
	return s, nil
}

func (p *Pomodoro) List(ctx context.Context) ([]PomodoroSession, error) {
	return p.sessions.List(ctx)
}

func (p *Pomodoro) Delete(ctx context.Context, id string) (bool, error) {
	return p.sessions.Delete(ctx, id)
}

// Next returns the phase that follows the recorded sessions.
func (p *Pomodoro) Next(ctx context.Context) (SessionKind, error) {
	sessions, err := p.sessions.List(ctx)
	if err != nil {
		return "", err
	}
	return NextPhase(sessions), nil
}

// DailyStats summarizes the sessions started on day, in day's location.
func (p *Pomodoro) DailyStats(ctx context.Context, day time.Time) (DayStats, error) {
	sessions, err := p.sessions.List(ctx)
	if err != nil {
		return DayStats{}, err
	}
	date := day.Format(DateLayout)
	stats := DayStats{Date: date}
	for _, s := range sessions {
		if s.StartedAt.In(day.Location()).Format(DateLayout) != date {
			continue
		}
		stats.Sessions++
		if s.Kind == Focus && s.Completed {
			stats.FocusSessions++
			stats.FocusMinutes += s.DurationMinutes
		}
	}
	return stats, nil
}

// NextPhase decides what comes after the last completed session. A break is
// followed by focus. A completed focus session is followed by a long break
// every LongBreakEvery completed focus sessions since the last long break,
// and by a short break otherwise.
func NextPhase(sessions []PomodoroSession) SessionKind {
	var last *PomodoroSession
	focusRun := 0
	for i := range sessions {
		s := &sessions[i]
		if !s.Completed {
			continue
		}
		last = s
		switch s.Kind {
		case Focus:
			focusRun++
		case LongBreak:
			focusRun = 0
		}
	}
	if last == nil || last.Kind != Focus {
		return Focus
	}
	if focusRun%LongBreakEvery == 0 {
		return LongBreak
	}
	return ShortBreak
}
