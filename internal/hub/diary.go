package hub

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

const DiaryKey = "diary_entries"

// Moods lists the accepted diary moods, best first.
var Moods = []string{"great", "good", "okay", "bad", "awful"}

// DiaryEntry is one diary page. EntryVersion starts at 1 and grows with every edit.
type DiaryEntry struct {
	ID           string    `json:"id" yaml:"id"`
	Date         string    `json:"date" yaml:"date"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Content      string    `json:"content" yaml:"content"`
	Mood         string    `json:"mood,omitempty" yaml:"mood,omitempty"`
	Tags         []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	EntryVersion int       `json:"entryVersion" yaml:"entryVersion"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func (e DiaryEntry) RecordID() string { return e.ID }

// DiaryInput holds the user-editable fields of an entry. An empty Date means today.
type DiaryInput struct {
	Date    string
	Title   string
	Content string
	Mood    string
	Tags    []string
}

func (d *Diary) normalize(in DiaryInput) (DiaryInput, error) {
	var err error
	if in.Content, err = required("content", in.Content); err != nil {
		return in, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	if in.Date == "" {
		in.Date = formatDate(d.clock.Now())
	} else if _, err := parseDate("date", in.Date); err != nil {
		return in, err
	}
	in.Mood = strings.ToLower(strings.TrimSpace(in.Mood))
	if in.Mood != "" && !slices.Contains(Moods, in.Mood) {
		return in, invalid("mood", "must be one of %s", strings.Join(Moods, ", "))
	}
	in.Tags = normalizeTags(in.Tags)
	return in, nil
}

// Diary stores entries newest first under the "diary_entries" key.
type Diary struct {
	entries *Collection[DiaryEntry]
	clock   Clock
	ids     IDGenerator
}

func NewDiary(d Deps) *Diary {
	return &Diary{
		entries: NewCollection[DiaryEntry](d.Storage, DiaryKey, d.Codec, d.Logger),
		clock:   d.Clock,
		ids:     d.IDs,
	}
}

func (d *Diary) Add(ctx context.Context, in DiaryInput) (DiaryEntry, error) {
	in, err := d.normalize(in)
	if err != nil {
		return DiaryEntry{}, err
	}
	now := d.clock.Now()
	entry := DiaryEntry{
		ID:           d.ids.New(),
		Date:         in.Date,
		Title:        in.Title,
		Content:      in.Content,
		Mood:         in.Mood,
		Tags:         in.Tags,
		EntryVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := d.entries.Insert(ctx, entry, Prepend); err != nil {
		return DiaryEntry{}, err
	}
	return entry, nil
}

// Edit replaces the fields of an entry and bumps its version.
// When expectedVersion is non-zero and differs from the stored version the
// edit is rejected with ErrVersionConflict.
func (d *Diary) Edit(ctx context.Context, id string, expectedVersion int, in DiaryInput) (DiaryEntry, error) {
	in, err := d.normalize(in)
	if err != nil {
		return DiaryEntry{}, err
	}
	return d.entries.Update(ctx, id, func(e DiaryEntry) (DiaryEntry, error) {
		if expectedVersion != 0 && e.EntryVersion != expectedVersion {
			return e, fmt.Errorf("diary entry %q is at version %d, not %d: %w", id, e.EntryVersion, expectedVersion, ErrVersionConflict)
		}
		e.Date = in.Date
		e.Title = in.Title
		e.Content = in.Content
		e.Mood = in.Mood
		e.Tags = in.Tags
		e.EntryVersion++
		e.UpdatedAt = d.clock.Now()
		return e, nil
	})
}

func (d *Diary) Delete(ctx context.Context, id string) (bool, error) {
	return d.entries.Delete(ctx, id)
}

func (d *Diary) Get(ctx context.Context, id string) (DiaryEntry, error) {
	return d.entries.Get(ctx, id)
}

func (d *Diary) List(ctx context.Context) ([]DiaryEntry, error) {
	return d.entries.List(ctx)
}

func (d *Diary) ByMood(ctx context.Context, mood string) ([]DiaryEntry, error) {
	mood = strings.ToLower(strings.TrimSpace(mood))
	return d.filter(ctx, func(e DiaryEntry) bool { return e.Mood == mood })
}

func (d *Diary) OnDate(ctx context.Context, date string) ([]DiaryEntry, error) {
	if _, err := parseDate("date", date); err != nil {
		return nil, err
	}
	date = strings.TrimSpace(date)
	return d.filter(ctx, func(e DiaryEntry) bool { return e.Date == date })
}

func (d *Diary) filter(ctx context.Context, keep func(DiaryEntry) bool) ([]DiaryEntry, error) {
	entries, err := d.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(entries, func(e DiaryEntry) bool { return !keep(e) }), nil
}
