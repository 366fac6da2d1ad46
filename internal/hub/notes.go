package hub

import (
	"context"
	"slices"
	"strings"
	"time"
)

const NotesKey = "notes"

// Note is a free-form note. Notes are kept newest first.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Favorite  bool      `json:"favorite" yaml:"favorite"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func (n Note) RecordID() string { return n.ID }

// NoteInput holds the user-editable fields of a note.
type NoteInput struct {
	Title   string
	Content string
	Tags    []string
}

func (in NoteInput) normalize() (NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" && in.Content == "" {
		return in, invalid("note", "title or content is required")
	}
	in.Tags = normalizeTags(in.Tags)
	return in, nil
}

// Notebook stores notes under the "notes" key.
type Notebook struct {
	notes *Collection[Note]
	clock Clock
	ids   IDGenerator
}

func NewNotebook(d Deps) *Notebook {
	return &Notebook{
		notes: NewCollection[Note](d.Storage, NotesKey, d.Codec, d.Logger),
		clock: d.Clock,
		ids:   d.IDs,
	}
}

// Add creates a note at the top of the notebook.
func (n *Notebook) Add(ctx context.Context, in NoteInput) (Note, error) {
	in, err := in.normalize()
	if err != nil {
		return Note{}, err
	}
	now := n.clock.Now()
	note := Note{
		ID:        n.ids.New(),
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := n.notes.Insert(ctx, note, Prepend); err != nil {
		return Note{}, err
	}
	return note, nil
}

func (n *Notebook) Update(ctx context.Context, id string, in NoteInput) (Note, error) {
	in, err := in.normalize()
	if err != nil {
		return Note{}, err
	}
	return n.notes.Update(ctx, id, func(note Note) (Note, error) {
		note.Title = in.Title
		note.Content = in.Content
		note.Tags = in.Tags
		note.UpdatedAt = n.clock.Now()
		return note, nil
	})
}

func (n *Notebook) ToggleFavorite(ctx context.Context, id string) (Note, error) {
	return n.notes.Update(ctx, id, func(note Note) (Note, error) {
		note.Favorite = !note.Favorite
		note.UpdatedAt = n.clock.Now()
		return note, nil
	})
}

func (n *Notebook) Delete(ctx context.Context, id string) (bool, error) {
	return n.notes.Delete(ctx, id)
}

func (n *Notebook) Get(ctx context.Context, id string) (Note, error) {
	return n.notes.Get(ctx, id)
}

func (n *Notebook) List(ctx context.Context) ([]Note, error) {
	return n.notes.List(ctx)
}

// Favorites returns only the notes marked as favorite.
func (n *Notebook) Favorites(ctx context.Context) ([]Note, error) {
	notes, err := n.notes.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(notes, func(note Note) bool { return !note.Favorite }), nil
}

// Search returns the notes whose title, content or tags contain query, ignoring case.
// An empty query matches every note.
func (n *Notebook) Search(ctx context.Context, query string) ([]Note, error) {
	notes, err := n.notes.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes, nil
	}
	return slices.DeleteFunc(notes, func(note Note) bool {
		if strings.Contains(strings.ToLower(note.Title), q) || strings.Contains(strings.ToLower(note.Content), q) {
			return false
		}
		for _, tag := range note.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return false
			}
		}
		return true
	}), nil
}

// normalizeTags trims tags and drops blanks and duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
