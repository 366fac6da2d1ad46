package hub

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	ShoppingListsKey     = "shopping_lists"
	ShoppingTemplatesKey = "shopping_templates"
)

// ShoppingItem is one line of a shopping list. Price is per unit.
type ShoppingItem struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	Price     float64 `json:"price" yaml:"price"`
	Purchased bool    `json:"purchased" yaml:"purchased"`
}

// ShoppingList embeds its items.
type ShoppingList struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Items     []ShoppingItem `json:"items" yaml:"items"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt" yaml:"updatedAt"`
}

func (l ShoppingList) RecordID() string { return l.ID }

// ShoppingTemplate holds a copy of a list's items that new lists can start from.
type ShoppingTemplate struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Items     []ShoppingItem `json:"items" yaml:"items"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`
}

func (t ShoppingTemplate) RecordID() string { return t.ID }

type ItemInput struct {
	Name     string
	Quantity int
	Price    float64
}

func (in ItemInput) normalize() (ItemInput, error) {
	var err error
	if in.Name, err = required("name", in.Name); err != nil {
		return in, err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return in, invalid("quantity", "must be at least 1, got %d", in.Quantity)
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return in, invalid("price", "must be a non-negative amount")
	}
	return in, nil
}

// Totals summarizes the cost of a list.
type Totals struct {
	Items     int     `json:"items"`
	Purchased int     `json:"purchased"`
	Total     float64 `json:"total"`
	Remaining float64 `json:"remaining"`
}

// errUnchanged aborts a list update that would not change anything.
var errUnchanged = errors.New("unchanged")

// Shopping stores lists and templates under separate keys. Templates copy
// items, so editing a list never affects a template or the other way round.
type Shopping struct {
	lists     *Collection[ShoppingList]
	templates *Collection[ShoppingTemplate]
	clock     Clock
	ids       IDGenerator
}

func NewShopping(d Deps) *Shopping {
	return &Shopping{
		lists:     NewCollection[ShoppingList](d.Storage, ShoppingListsKey, d.Codec, d.Logger),
		templates: NewCollection[ShoppingTemplate](d.Storage, ShoppingTemplatesKey, d.Codec, d.Logger),
		clock:     d.Clock,
		ids:       d.IDs,
	}
}

func (s *Shopping) CreateList(ctx context.Context, name string) (ShoppingList, error) {
	name, err := required("name", name)
	if err != nil {
		return ShoppingList{}, err
	}
	return s.insertList(ctx, name, nil)
}

func (s *Shopping) insertList(ctx context.Context, name string, items []ShoppingItem) (ShoppingList, error) {
	now := s.clock.Now()
	list := ShoppingList{
		ID:        s.ids.New(),
		Name:      name,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if list.Items == nil {
		list.Items = []ShoppingItem{}
	}
	if err := s.lists.Insert(ctx, list, Append); err != nil {
		return ShoppingList{}, err
	}
	return list, nil
}

func (s *Shopping) RenameList(ctx context.Context, listID, name string) (ShoppingList, error) {
	name, err := required("name", name)
	if err != nil {
		return ShoppingList{}, err
	}
	return s.updateList(ctx, listID, func(l ShoppingList) (ShoppingList, error) {
		l.Name = name
		return l, nil
	})
}

func (s *Shopping) DeleteList(ctx context.Context, listID string) (bool, error) {
	return s.lists.Delete(ctx, listID)
}

func (s *Shopping) Lists(ctx context.Context) ([]ShoppingList, error) {
	return s.lists.List(ctx)
}

func (s *Shopping) List(ctx context.Context, listID string) (ShoppingList, error) {
	return s.lists.Get(ctx, listID)
}

// AddItem appends an unpurchased item to a list. Quantity defaults to 1.
func (s *Shopping) AddItem(ctx context.Context, listID string, in ItemInput) (ShoppingItem, error) {
	in, err := in.normalize()
	if err != nil {
		return ShoppingItem{}, err
	}
	item := ShoppingItem{
		ID:       s.ids.New(),
		Name:     in.Name,
		Quantity: in.Quantity,
		Price:    in.Price,
	}
	_, err = s.updateList(ctx, listID, func(l ShoppingList) (ShoppingList, error) {
		l.Items = append(l.Items, item)
		return l, nil
	})
	if err != nil {
		return ShoppingItem{}, err
	}
	return item, nil
}

func (s *Shopping) UpdateItem(ctx context.Context, listID, itemID string, in ItemInput) (ShoppingItem, error) {
	in, err := in.normalize()
	if err != nil {
		return ShoppingItem{}, err
	}
	return s.updateItem(ctx, listID, itemID, func(it ShoppingItem) ShoppingItem {
		it.Name = in.Name
		it.Quantity = in.Quantity
		it.Price = in.Price
		return it
	})
}

// ToggleItem flips the purchased flag of an item.
func (s *Shopping) ToggleItem(ctx context.Context, listID, itemID string) (ShoppingItem, error) {
	return s.updateItem(ctx, listID, itemID, func(it ShoppingItem) ShoppingItem {
		it.Purchased = !it.Purchased
		return it
	})
}

// RemoveItem deletes an item from a list. A missing item reports false.
func (s *Shopping) RemoveItem(ctx context.Context, listID, itemID string) (bool, error) {
	_, err := s.updateList(ctx, listID, func(l ShoppingList) (ShoppingList, error) {
		n := len(l.Items)
		l.Items = slices.DeleteFunc(l.Items, func(it ShoppingItem) bool { return it.ID == itemID })
		if len(l.Items) == n {
			return l, errUnchanged
		}
		return l, nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearPurchased removes every purchased item from a list and returns how many were removed.
func (s *Shopping) ClearPurchased(ctx context.Context, listID string) (int, error) {
	removed := 0
	_, err := s.updateList(ctx, listID, func(l ShoppingList) (ShoppingList, error) {
		n := len(l.Items)
		l.Items = slices.DeleteFunc(l.Items, func(it ShoppingItem) bool { return it.Purchased })
		removed = n - len(l.Items)
		if removed == 0 {
			return l, errUnchanged
		}
		return l, nil
	})
	if errors.Is(err, errUnchanged) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ListTotals computes what a list costs in total and what is left to buy.
func ListTotals(l ShoppingList) Totals {
	var t Totals
	for _, it := range l.Items {
		cost := float64(it.Quantity) * it.Price
		t.Items++
		t.Total += cost
		if it.Purchased {
			t.Purchased++
		} else {
			t.Remaining += cost
		}
	}
	t.Total = roundCents(t.Total)
	t.Remaining = roundCents(t.Remaining)
	return t
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// SaveTemplate copies the items of a list into a new template. The copies get
// fresh ids and start unpurchased.
func (s *Shopping) SaveTemplate(ctx context.Context, listID, name string) (ShoppingTemplate, error) {
	list, err := s.lists.Get(ctx, listID)
	if err != nil {
		return ShoppingTemplate{}, err
	}
	name = defaultString(name, list.Name)
	tmpl := ShoppingTemplate{
		ID:        s.ids.New(),
		Name:      name,
		Items:     s.copyItems(list.Items),
		CreatedAt: s.clock.Now(),
	}
	if err := s.templates.Insert(ctx, tmpl, Append); err != nil {
		return ShoppingTemplate{}, err
	}
	return tmpl, nil
}

// CreateFromTemplate starts a new list holding copies of a template's items.
// An empty name reuses the template's name.
func (s *Shopping) CreateFromTemplate(ctx context.Context, templateID, name string) (ShoppingList, error) {
	tmpl, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return ShoppingList{}, err
	}
	return s.insertList(ctx, defaultString(name, tmpl.Name), s.copyItems(tmpl.Items))
}

func (s *Shopping) Templates(ctx context.Context) ([]ShoppingTemplate, error) {
	return s.templates.List(ctx)
}

func (s *Shopping) DeleteTemplate(ctx context.Context, templateID string) (bool, error) {
	return s.templates.Delete(ctx, templateID)
}

func (s *Shopping) copyItems(items []ShoppingItem) []ShoppingItem {
	out := make([]ShoppingItem, 0, len(items))
	for _, it := range items {
		it.ID = s.ids.New()
		it.Purchased = false
		out = append(out, it)
	}
	return out
}

func (s *Shopping) updateList(ctx context.Context, listID string, fn func(ShoppingList) (ShoppingList, error)) (ShoppingList, error) {
	return s.lists.Update(ctx, listID, func(l ShoppingList) (ShoppingList, error) {
		l, err := fn(l)
		if err != nil {
			return l, err
		}
		l.UpdatedAt = s.clock.Now()
		return l, nil
	})
}

func (s *Shopping) updateItem(ctx context.Context, listID, itemID string, fn func(ShoppingItem) ShoppingItem) (ShoppingItem, error) {
	var updated ShoppingItem
	_, err := s.updateList(ctx, listID, func(l ShoppingList) (ShoppingList, error) {
		i := slices.IndexFunc(l.Items, func(it ShoppingItem) bool { return it.ID == itemID })
		if i < 0 {
			return l, notFound("shopping item", itemID)
		}
		l.Items[i] = fn(l.Items[i])
		updated = l.Items[i]
		return l, nil
	})
	if err != nil {
		return ShoppingItem{}, err
	}
	return updated, nil
}
