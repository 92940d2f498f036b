// Package history keeps the append-only log of finalized order
// sessions and derives customer analytics from it. Entries are
// immutable snapshots; they store dish ids and quantities but not
// prices, so every analytics pass re-resolves prices against the live
// catalog. Reported historical spend therefore drifts when prices are
// edited after the fact; that is a property of the file format, not an
// accident of this implementation.
package history

import "github.com/tablerun/go-pos-core/internal/domain"

// Menu is the catalog contract the analytics need: dish lookup by id.
// Lines whose id no longer resolves are skipped.
type Menu interface {
	FindByID(id int) (*domain.Dish, bool)
}

// Ranker is the catalog contract for the top-dishes report. The
// ranking is sales-counter based and lives in the catalog; history only
// re-exposes it alongside the habit analytics.
type Ranker interface {
	TopSelling(limit int) []*domain.Dish
}

// Log is the ordered collection of finalized sessions.
type Log struct {
	entries []domain.HistoryEntry
}

// NewLog returns a log pre-populated with previously persisted entries.
func NewLog(entries []domain.HistoryEntry) *Log {
	l := &Log{}
	l.entries = append(l.entries, entries...)
	return l
}

// Append adds a finalized entry to the end of the log.
func (l *Log) Append(e domain.HistoryEntry) {
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the log in append order.
func (l *Log) Entries() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries in the log.
func (l *Log) Len() int { return len(l.entries) }

// Habit is one customer's aggregate across all history entries.
type Habit struct {
	// OrderCount is the number of finalized sessions the customer
	// appeared in.
	OrderCount int
	// TotalSpent sums line totals at current catalog prices.
	TotalSpent float64
	// DishCounts maps dish name to total units ordered.
	DishCounts map[string]int
}

// CustomerHabits scans the whole log and aggregates per-customer order
// counts, spend, and dish tallies. Prices and dish names come from the
// live catalog; lines whose dish no longer exists contribute nothing.
func (l *Log) CustomerHabits(menu Menu) map[string]Habit {
	habits := make(map[string]Habit)
	for _, entry := range l.entries {
		for name, snap := range entry.Orders {
			h, ok := habits[name]
			if !ok {
				h = Habit{DishCounts: make(map[string]int)}
			}
			h.OrderCount++
			for _, line := range snap.Items {
				d, found := menu.FindByID(line.DishID)
				if !found {
					continue
				}
				h.TotalSpent += d.LineTotal(line.Quantity)
				h.DishCounts[d.Name] += line.Quantity
			}
			habits[name] = h
		}
	}
	return habits
}

// TopDishes returns the catalog's sales ranking, capped at n. Exposed
// here so the reporting surface (habits + rankings) lives in one place.
func (l *Log) TopDishes(r Ranker, n int) []*domain.Dish {
	return r.TopSelling(n)
}
