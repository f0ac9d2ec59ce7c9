// Package visibility implements the per-expense access policy. Every
// (visibility, tab, owner) combination maps to exactly one decision:
//
//	public   → full in the shared tab, absent from the personal tab
//	summary  → shared tab: full for the creator, masked for everyone else;
//	           personal tab: full for the creator only
//	private  → personal tab for the creator only; never in the shared tab
//
// Masking hides category, place and memo behind a generic label and a
// neutral color. The amount and payer are always shown.
package visibility

import "moneydiary/internal/core"

// Tab identifies the viewing context.
type Tab string

const (
	TabShared   Tab = "shared"
	TabPersonal Tab = "personal"
)

// Decision is the outcome of the policy for one expense.
type Decision int

const (
	Hidden Decision = iota
	Masked
	Full
)

func (d Decision) String() string {
	switch d {
	case Masked:
		return "masked"
	case Full:
		return "full"
	default:
		return "hidden"
	}
}

// MaskedLabel replaces the category name of masked records.
const MaskedLabel = "個人出費"

// NeutralColor replaces the category color of masked records.
const NeutralColor = "#AEB6BF"

// Decide evaluates the policy. It is total: every input yields a decision.
func Decide(v core.Visibility, tab Tab, isOwner bool) Decision {
	switch v.Effective() {
	case core.VisibilityPrivate:
		if tab == TabPersonal && isOwner {
			return Full
		}
		return Hidden
	case core.VisibilitySummary:
		if isOwner {
			return Full
		}
		if tab == TabShared {
			return Masked
		}
		return Hidden
	default: // public
		if tab == TabShared {
			return Full
		}
		return Hidden
	}
}

// DecideFor applies Decide to a concrete expense and viewer.
func DecideFor(e core.Expense, viewer string, tab Tab) Decision {
	return Decide(e.Visibility, tab, e.CreatedBy == viewer)
}

// Mask returns a copy of e with the display fields hidden. The amount,
// payer, dates and identity fields survive; category, place and memo do not.
func Mask(e core.Expense) core.Expense {
	return core.Expense{
		ID:         e.ID,
		Date:       e.Date,
		Payer:      e.Payer,
		Category:   MaskedLabel,
		Amount:     e.Amount,
		Visibility: e.Visibility,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// Filter applies the policy to a list for one tab, dropping hidden records
// and masking the rest as the policy demands. Order is preserved.
func Filter(expenses []core.Expense, viewer string, tab Tab) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		switch DecideFor(e, viewer, tab) {
		case Full:
			out = append(out, e)
		case Masked:
			out = append(out, Mask(e))
		}
	}
	return out
}

// ForSummary filters a list for aggregation: other users' private records
// are excluded, everything else keeps its true category so totals are
// computed against real data rather than masked labels.
func ForSummary(expenses []core.Expense, viewer string) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Visibility.Effective() == core.VisibilityPrivate && e.CreatedBy != viewer {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ForViewer reproduces the server-side read filter: the creator sees their
// own records untouched, others see public records untouched, summary
// records masked and private records not at all.
func ForViewer(expenses []core.Expense, viewer string) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.CreatedBy == viewer {
			out = append(out, e)
			continue
		}
		switch e.Visibility.Effective() {
		case core.VisibilityPublic:
			out = append(out, e)
		case core.VisibilitySummary:
			out = append(out, Mask(e))
		}
	}
	return out
}
