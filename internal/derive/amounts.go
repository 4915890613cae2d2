package derive

import "github.com/dkowalski/truck-logbook/internal/domain"

// Amounts keeps the three expense money fields mutually consistent.
//
// Which field gets recomputed on an edit is not a fixed formula; it depends
// on which field the user touched last:
//
//   - editing net recomputes total (total = net + tax)
//   - editing total recomputes net (net = max(total - tax, 0))
//   - editing tax recomputes whichever of the two the user did NOT touch
//     last: total when net was last edited, net when total was.
//
// Net is floored at zero so an oversized tax can never drive it negative.
type Amounts struct {
	Net   float64
	Tax   float64
	Total float64

	// LastEdited tracks the most recently user-edited field (net or total;
	// tax edits do not change the direction). Zero value means no edit yet,
	// which behaves like net-last-edited.
	LastEdited domain.AmountField
}

// SetNet records a user edit of the net field and recomputes total.
func (a *Amounts) SetNet(v float64) {
	a.Net = v
	a.LastEdited = domain.AmountNet
	a.Total = a.Net + a.Tax
}

// SetTotal records a user edit of the total field and recomputes net.
func (a *Amounts) SetTotal(v float64) {
	a.Total = v
	a.LastEdited = domain.AmountTotal
	a.Net = flooredNet(a.Total, a.Tax)
}

// SetTax records a user edit of the tax field. The recompute direction is
// decided by LastEdited: total stays authoritative if it was touched last,
// otherwise net does.
func (a *Amounts) SetTax(v float64) {
	a.Tax = v
	if a.LastEdited == domain.AmountTotal {
		a.Net = flooredNet(a.Total, a.Tax)
		return
	}
	a.Total = a.Net + a.Tax
}

// Set dispatches an edit to the named field. Unknown fields are ignored;
// the handler layer validates field names before calling.
func (a *Amounts) Set(field domain.AmountField, v float64) {
	switch field {
	case domain.AmountNet:
		a.SetNet(v)
	case domain.AmountTax:
		a.SetTax(v)
	case domain.AmountTotal:
		a.SetTotal(v)
	}
}

func flooredNet(total, tax float64) float64 {
	n := total - tax
	if n < 0 {
		return 0
	}
	return n
}
