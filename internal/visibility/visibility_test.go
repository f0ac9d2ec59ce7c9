package visibility

import (
	"testing"

	"moneydiary/internal/core"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		vis     core.Visibility
		tab     Tab
		isOwner bool
		want    Decision
	}{
		{"public shared owner", core.VisibilityPublic, TabShared, true, Full},
		{"public shared other", core.VisibilityPublic, TabShared, false, Full},
		{"public personal owner", core.VisibilityPublic, TabPersonal, true, Hidden},
		{"public personal other", core.VisibilityPublic, TabPersonal, false, Hidden},
		{"summary shared owner", core.VisibilitySummary, TabShared, true, Full},
		{"summary shared other", core.VisibilitySummary, TabShared, false, Masked},
		{"summary personal owner", core.VisibilitySummary, TabPersonal, true, Full},
		{"summary personal other", core.VisibilitySummary, TabPersonal, false, Hidden},
		{"private shared owner", core.VisibilityPrivate, TabShared, true, Hidden},
		{"private shared other", core.VisibilityPrivate, TabShared, false, Hidden},
		{"private personal owner", core.VisibilityPrivate, TabPersonal, true, Full},
		{"private personal other", core.VisibilityPrivate, TabPersonal, false, Hidden},
		{"empty defaults to public", core.Visibility(""), TabShared, false, Full},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.vis, tt.tab, tt.isOwner); got != tt.want {
				t.Errorf("Decide(%q, %q, %v) = %v, want %v", tt.vis, tt.tab, tt.isOwner, got, tt.want)
			}
		})
	}
}

func TestMask(t *testing.T) {
	e := core.Expense{
		ID:         "exp-1",
		Date:       "2024-05-10",
		Payer:      "花子",
		Category:   "cat-food",
		Amount:     1200,
		Memo:       "誕生日プレゼント",
		Place:      "place-1",
		Visibility: core.VisibilitySummary,
		CreatedBy:  "hanako",
	}
	m := Mask(e)

	if m.Category != MaskedLabel {
		t.Errorf("Category = %q, want %q", m.Category, MaskedLabel)
	}
	if m.Memo != "" || m.Place != "" {
		t.Errorf("Memo/Place not cleared: %q %q", m.Memo, m.Place)
	}
	if m.Amount != e.Amount {
		t.Errorf("Amount = %d, want %d", m.Amount, e.Amount)
	}
	if m.Payer != e.Payer || m.Date != e.Date || m.ID != e.ID {
		t.Error("identity fields must survive masking")
	}
}

func TestFilter(t *testing.T) {
	expenses := []core.Expense{
		{ID: "1", Amount: 100, Visibility: core.VisibilityPublic, CreatedBy: "taro"},
		{ID: "2", Amount: 200, Visibility: core.VisibilitySummary, CreatedBy: "hanako"},
		{ID: "3", Amount: 300, Visibility: core.VisibilityPrivate, CreatedBy: "taro"},
		{ID: "4", Amount: 400, Visibility: core.VisibilityPrivate, CreatedBy: "hanako"},
	}

	shared := Filter(expenses, "taro", TabShared)
	if len(shared) != 2 {
		t.Fatalf("shared tab: got %d expenses, want 2", len(shared))
	}
	if shared[0].ID != "1" || shared[1].ID != "2" {
		t.Errorf("shared tab order = %q, %q", shared[0].ID, shared[1].ID)
	}
	if shared[1].Category != MaskedLabel {
		t.Errorf("other user's summary record must be masked, got category %q", shared[1].Category)
	}

	personal := Filter(expenses, "taro", TabPersonal)
	if len(personal) != 1 || personal[0].ID != "3" {
		t.Fatalf("personal tab: got %+v, want only expense 3", personal)
	}
}

func TestForSummary(t *testing.T) {
	expenses := []core.Expense{
		{ID: "1", Category: "cat-a", Visibility: core.VisibilityPublic, CreatedBy: "taro"},
		{ID: "2", Category: "cat-b", Visibility: core.VisibilitySummary, CreatedBy: "hanako"},
		{ID: "3", Category: "cat-c", Visibility: core.VisibilityPrivate, CreatedBy: "hanako"},
	}

	got := ForSummary(expenses, "taro")
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	// True categories survive so totals aggregate real data.
	if got[1].Category != "cat-b" {
		t.Errorf("summary aggregation must keep the true category, got %q", got[1].Category)
	}
}

func TestForViewer(t *testing.T) {
	expenses := []core.Expense{
		{ID: "1", Visibility: core.VisibilityPublic, CreatedBy: "hanako", Category: "cat-a"},
		{ID: "2", Visibility: core.VisibilitySummary, CreatedBy: "hanako", Category: "cat-b"},
		{ID: "3", Visibility: core.VisibilityPrivate, CreatedBy: "hanako", Category: "cat-c"},
		{ID: "4", Visibility: core.VisibilityPrivate, CreatedBy: "taro", Category: "cat-d"},
	}

	got := ForViewer(expenses, "taro")
	if len(got) != 3 {
		t.Fatalf("got %d expenses, want 3", len(got))
	}
	if got[0].ID != "1" || got[0].Category != "cat-a" {
		t.Errorf("public record altered: %+v", got[0])
	}
	if got[1].ID != "2" || got[1].Category != MaskedLabel {
		t.Errorf("summary record not masked: %+v", got[1])
	}
	if got[2].ID != "4" || got[2].Category != "cat-d" {
		t.Errorf("own private record altered: %+v", got[2])
	}
}
