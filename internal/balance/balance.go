// Package balance decides when a payer's balance is worth requesting and
// how the server's reconstruction is combined and displayed. The historical
// walk itself lives on the data service side; this package owns only the
// gating and arithmetic around its result.
package balance

import "moneydiary/internal/core"

// ShouldFetch reports whether a balance request makes sense for the payer.
// Balances exist only for payers with balance tracking enabled; for anyone
// else the call must be skipped entirely, not fetched and ignored.
func ShouldFetch(payer core.Payer) bool {
	return payer.TrackBalance
}

// Combine recomputes the balance from its parts. The result must match the
// server's Balance field; the client recomputes it so the display never
// disagrees with its own breakdown lines.
func Combine(b core.PayerBalance) int {
	return b.Carryover + b.MonthCharge - b.MonthSpent
}

// Displayable reports whether the balance panel should render at all. A
// month with no carryover and no charge has nothing to reconcile, even if
// spending occurred.
func Displayable(b core.PayerBalance) bool {
	return b.Carryover != 0 || b.MonthCharge > 0
}
