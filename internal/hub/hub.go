// Package hub holds the household hub's feature stores. Each feature owns one
// or two fixed storage keys and persists its whole collection on every change.
package hub

// Deps are the collaborators shared by every feature store.
type Deps struct {
	Storage Storage
	Codec   Codec
	Logger  Logger
	Clock   Clock
	IDs     IDGenerator
}

// Hub bundles the feature stores over one storage backend.
type Hub struct {
	Todos     *TodoList
	Notes     *Notebook
	Diary     *Diary
	Reminders *Reminders
	Shopping  *Shopping
	Sleep     *SleepTracker
	Periods   *PeriodTracker
	Pomodoro  *Pomodoro
	Calendar  *Calendar
}

// NewHub builds every feature store. Missing optional dependencies fall back
// to JSON, a no-op logger, the real clock and timestamp ids.
func NewHub(d Deps) *Hub {
	if d.Codec == nil {
		d.Codec = JSONCodec{}
	}
	if d.Logger == nil {
		d.Logger = NewNopLogger()
	}
	if d.Clock == nil {
		d.Clock = RealClock{}
	}
	if d.IDs == nil {
		d.IDs = TimestampIDGenerator{Clock: d.Clock}
	}
	return &Hub{
		Todos:     NewTodoList(d),
		Notes:     NewNotebook(d),
		Diary:     NewDiary(d),
		Reminders: NewReminders(d),
		Shopping:  NewShopping(d),
		Sleep:     NewSleepTracker(d),
		Periods:   NewPeriodTracker(d),
		Pomodoro:  NewPomodoro(d),
		Calendar:  NewCalendar(d),
	}
}

// Keys lists every storage key owned by a feature store.
func Keys() []string {
	return []string{
		TodosKey,
		NotesKey,
		DiaryKey,
		RemindersKey,
		ShoppingListsKey,
		ShoppingTemplatesKey,
		SleepLogsKey,
		PeriodDataKey,
		PomodoroSessionsKey,
		CalendarEventsKey,
	}
}
