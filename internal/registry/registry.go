// Package registry builds O(1) lookup views over the master-data dictionaries
// (categories, places, payers). Lookups never fail: a reference to a deleted
// or renamed entry falls back to displaying the raw id, so historical records
// always render.
package registry

import (
	"sort"

	"moneydiary/internal/core"
)

// FallbackColor is used for categories missing from the current master list
// and for masked records.
const FallbackColor = "#AEB6BF"

// Registry indexes the three master lists for constant-time lookups.
type Registry struct {
	categories []core.Category
	places     []core.Place
	payers     []core.Payer

	catByID    map[string]core.Category
	catIDByNam map[string]string
	payerByNam map[string]core.Payer
}

// New indexes the given master lists. The slices are not copied; callers
// should treat them as owned by the registry after this.
func New(categories []core.Category, places []core.Place, payers []core.Payer) *Registry {
	r := &Registry{
		categories: categories,
		places:     places,
		payers:     payers,
		catByID:    make(map[string]core.Category, len(categories)),
		catIDByNam: make(map[string]string, len(categories)),
		payerByNam: make(map[string]core.Payer, len(payers)),
	}
	for _, c := range categories {
		r.catByID[c.ID] = c
		r.catIDByNam[c.Name] = c.ID
	}
	for _, p := range payers {
		r.payerByNam[p.Name] = p
	}
	return r
}

// Category returns the category for an id, and whether it is known.
func (r *Registry) Category(id string) (core.Category, bool) {
	c, ok := r.catByID[id]
	return c, ok
}

// CategoryName resolves a category id to its display name, falling back to
// the id itself when the category is gone from the master list.
func (r *Registry) CategoryName(id string) string {
	if c, ok := r.catByID[id]; ok {
		return c.Name
	}
	return id
}

// CategoryColor resolves a category id to its color, falling back to
// FallbackColor.
func (r *Registry) CategoryColor(id string) string {
	if c, ok := r.catByID[id]; ok && c.Color != "" {
		return c.Color
	}
	return FallbackColor
}

// IsExpenseCategory reports whether a category id counts as spending.
// Unknown ids are treated as expense categories, matching how historical
// records with deleted categories are aggregated.
func (r *Registry) IsExpenseCategory(id string) bool {
	if c, ok := r.catByID[id]; ok {
		return c.IsExpense
	}
	return true
}

// CategoryIDByName resolves a category name to its id. Recurring templates
// reference categories by name; a stale name resolves to itself so the value
// still displays.
func (r *Registry) CategoryIDByName(name string) string {
	if id, ok := r.catIDByNam[name]; ok {
		return id
	}
	return name
}

// SortOrder returns a category's configured position; unknown ids sort last.
func (r *Registry) SortOrder(id string) int {
	if c, ok := r.catByID[id]; ok {
		return c.SortOrder
	}
	return int(^uint(0) >> 1)
}

// ExpenseCategoryIDs returns the ids of all spending categories.
func (r *Registry) ExpenseCategoryIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, c := range r.categories {
		if c.IsExpense {
			ids[c.ID] = true
		}
	}
	return ids
}

// ActiveCategories returns active categories in sortOrder, for entry forms.
func (r *Registry) ActiveCategories() []core.Category {
	var out []core.Category
	for _, c := range r.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// ActivePlaces returns active places in sortOrder.
func (r *Registry) ActivePlaces() []core.Place {
	var out []core.Place
	for _, p := range r.places {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// ActivePayers returns active payers in sortOrder.
func (r *Registry) ActivePayers() []core.Payer {
	var out []core.Payer
	for _, p := range r.payers {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// PayerByName returns the payer record for a name, and whether it exists.
// Expenses reference payers by free-text name.
func (r *Registry) PayerByName(name string) (core.Payer, bool) {
	p, ok := r.payerByNam[name]
	return p, ok
}
