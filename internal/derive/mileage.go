// Package derive contains the pure derived-field calculators: leg mileage,
// trip totals, lateness, revenue per mile, and net/tax/total reconciliation.
// Nothing in this package holds state or touches the database; every value
// is recomputed from the current stop list on each call.
package derive

import "github.com/dkowalski/truck-logbook/internal/domain"

// MileageBetween returns the distance from stop a to stop b, or nil when it
// cannot be determined.
//
// Priority order: when both stops carry an odometer reading and b's exceeds
// a's, the delta wins, even when a manual miles-to-next value is present,
// since odometer data supersedes a possibly stale manual figure. Otherwise
// the manual value on a is used. Nil means "unavailable", never zero.
func MileageBetween(a, b domain.Stop) *float64 {
	if a.Odometer != nil && b.Odometer != nil && *b.Odometer > *a.Odometer {
		d := *b.Odometer - *a.Odometer
		return &d
	}
	if a.MilesToNext != nil {
		m := *a.MilesToNext
		return &m
	}
	return nil
}

// TotalMileage sums MileageBetween over consecutive stop pairs.
// Legs with no determinable mileage contribute zero.
func TotalMileage(stops []domain.Stop) float64 {
	var total float64
	for i := 0; i+1 < len(stops); i++ {
		if m := MileageBetween(stops[i], stops[i+1]); m != nil {
			total += *m
		}
	}
	return total
}

// RevenuePerMile returns revenue/totalMiles, or nil when total mileage is not
// positive. Callers render nil as a placeholder dash, never zero, and never
// an error.
func RevenuePerMile(revenue, totalMiles float64) *float64 {
	if totalMiles <= 0 {
		return nil
	}
	rpm := revenue / totalMiles
	return &rpm
}
