package hub

import (
	"context"
	"time"
)

const TodosKey = "todos"

// Task is a single to-do item.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func (t Task) RecordID() string { return t.ID }

// TodoList stores tasks in insertion order under the "todos" key.
type TodoList struct {
	tasks *Collection[Task]
	clock Clock
	ids   IDGenerator
}

func NewTodoList(d Deps) *TodoList {
	return &TodoList{
		tasks: NewCollection[Task](d.Storage, TodosKey, d.Codec, d.Logger),
		clock: d.Clock,
		ids:   d.IDs,
	}
}

// Add appends a new, uncompleted task.
func (l *TodoList) Add(ctx context.Context, text, category string) (Task, error) {
	text, err := required("text", text)
	if err != nil {
		return Task{}, err
	}
	now := l.clock.Now()
	task := Task{
		ID:        l.ids.New(),
		Text:      text,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.tasks.Insert(ctx, task, Append); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (l *TodoList) List(ctx context.Context) ([]Task, error) {
	return l.tasks.List(ctx)
}

// Pending returns the tasks that are not completed yet.
func (l *TodoList) Pending(ctx context.Context) ([]Task, error) {
	tasks, err := l.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Task
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// Toggle flips the completed flag of a task.
func (l *TodoList) Toggle(ctx context.Context, id string) (Task, error) {
	return l.tasks.Update(ctx, id, func(t Task) (Task, error) {
		t.Completed = !t.Completed
		t.UpdatedAt = l.clock.Now()
		return t, nil
	})
}

// Edit changes the text of a task, and its category when category is non-nil.
func (l *TodoList) Edit(ctx context.Context, id, text string, category *string) (Task, error) {
	text, err := required("text", text)
	if err != nil {
		return Task{}, err
	}
	return l.tasks.Update(ctx, id, func(t Task) (Task, error) {
		t.Text = text
		if category != nil {
			t.Category = *category
		}
		t.UpdatedAt = l.clock.Now()
		return t, nil
	})
}

func (l *TodoList) Delete(ctx context.Context, id string) (bool, error) {
	return l.tasks.Delete(ctx, id)
}

// ClearCompleted removes every completed task and returns how many were removed.
func (l *TodoList) ClearCompleted(ctx context.Context) (int, error) {
	return l.tasks.DeleteWhere(ctx, func(t Task) bool { return t.Completed })
}
