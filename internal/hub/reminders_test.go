package hub_test

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hub-go/internal/hub"
	"hub-go/internal/testutil"
)

func newReminders(t *testing.T) *hub.Reminders {
	t.Helper()
	return hub.NewReminders(testutil.NewTestDeps(testutil.NewTestStorage()).Deps)
}

func TestReminders_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    hub.ReminderInput
		field string
	}{
		{name: "missing title", in: hub.ReminderInput{Time: "08:00"}, field: "title"},
		{name: "malformed time", in: hub.ReminderInput{Title: "Pills", Time: "8am"}, field: "time"},
		{name: "out of range time", in: hub.ReminderInput{Title: "Pills", Time: "25:00"}, field: "time"},
		{name: "malformed date", in: hub.ReminderInput{Title: "Pills", Time: "08:00", Date: "2024-13-01"}, field: "date"},
		{name: "unknown repeat", in: hub.ReminderInput{Title: "Pills", Time: "08:00", Repeat: "weekly"}, field: "repeat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newReminders(t).Add(context.Background(), tt.in)
			var verr *hub.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestReminders_AddAndToggle(t *testing.T) {
	ctx := context.Background()
	rems := newReminders(t)

	rem, err := rems.Add(ctx, hub.ReminderInput{Title: "Pills", Time: "08:00"})
	require.NoError(t, err)
	assert.True(t, rem.Enabled)
	assert.Equal(t, hub.RepeatNone, rem.Repeat)

	toggled, err := rems.Toggle(ctx, rem.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	_, err = rems.Toggle(ctx, "missing")
	assert.ErrorIs(t, err, hub.ErrNotFound)
}

func TestNextOccurrence(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	at := func(day, hour, min int) time.Time {
		return time.Date(2024, 1, day, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		rem    hub.Reminder
		want   time.Time
		wantOK bool
	}{
		{name: "daily later today", rem: hub.Reminder{Time: "18:00", Repeat: hub.RepeatDaily}, want: at(15, 18, 0), wantOK: true},
		{name: "daily already passed", rem: hub.Reminder{Time: "08:00", Repeat: hub.RepeatDaily}, want: at(16, 8, 0), wantOK: true},
		{name: "daily right now", rem: hub.Reminder{Time: "10:30", Repeat: hub.RepeatDaily}, want: at(15, 10, 30), wantOK: true},
		{name: "dated in future", rem: hub.Reminder{Date: "2024-01-20", Time: "09:00", Repeat: hub.RepeatNone}, want: at(20, 9, 0), wantOK: true},
		{name: "dated in past", rem: hub.Reminder{Date: "2024-01-10", Time: "09:00", Repeat: hub.RepeatNone}, wantOK: false},
		{name: "undated one-off", rem: hub.Reminder{Time: "07:00", Repeat: hub.RepeatNone}, want: at(16, 7, 0), wantOK: true},
		{name: "daily ignores date", rem: hub.Reminder{Date: "2023-06-01", Time: "12:00", Repeat: hub.RepeatDaily}, want: at(15, 12, 0), wantOK: true},
		{name: "corrupt time", rem: hub.Reminder{Time: "noon"}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := hub.NextOccurrence(tt.rem, now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_DSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		rem  hub.Reminder
		want time.Time
	}{
		{
			name: "spring forward same day",
			now:  time.Date(2024, 3, 10, 0, 30, 0, 0, ny),
			rem:  hub.Reminder{Time: "09:00", Repeat: hub.RepeatDaily},
			want: time.Date(2024, 3, 10, 9, 0, 0, 0, ny),
		},
		{
			name: "spring forward next day",
			now:  time.Date(2024, 3, 9, 22, 0, 0, 0, ny),
			rem:  hub.Reminder{Time: "09:00", Repeat: hub.RepeatDaily},
			want: time.Date(2024, 3, 10, 9, 0, 0, 0, ny),
		},
		{
			name: "fall back dated",
			now:  time.Date(2024, 11, 3, 0, 15, 0, 0, ny),
			rem:  hub.Reminder{Date: "2024-11-03", Time: "18:45"},
			want: time.Date(2024, 11, 3, 18, 45, 0, 0, ny),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := hub.NextOccurrence(tt.rem, tt.now)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "NextOccurrence() = %v, want %v", got, tt.want)
			assert.Equal(t, tt.want.Hour(), got.Hour())
		})
	}
}

func TestReminders_Upcoming(t *testing.T) {
	ctx := context.Background()
	rems := newReminders(t)
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	for _, in := range []hub.ReminderInput{
		{Title: "Evening walk", Time: "19:00", Repeat: hub.RepeatDaily},
		{Title: "Lunch", Time: "12:00", Repeat: hub.RepeatDaily},
		{Title: "Dentist", Date: "2024-01-17", Time: "09:00"},
		{Title: "Missed", Date: "2024-01-01", Time: "09:00"},
	} {
		_, err := rems.Add(ctx, in)
		require.NoError(t, err)
	}
	disabled, err := rems.Add(ctx, hub.ReminderInput{Title: "Muted", Time: "11:00", Repeat: hub.RepeatDaily})
	require.NoError(t, err)
	_, err = rems.Toggle(ctx, disabled.ID)
	require.NoError(t, err)

	due, err := rems.Upcoming(ctx, now, 24*time.Hour)
	require.NoError(t, err)
	var titles []string
	for _, d := range due {
		titles = append(titles, d.Reminder.Title)
	}
	assert.Equal(t, []string{"Lunch", "Evening walk"}, titles)

	due, err = rems.Upcoming(ctx, now, 72*time.Hour)
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, "Dentist", due[2].Reminder.Title)
}
