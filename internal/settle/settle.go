// Package settle computes how a table's bill is divided among its
// participants. Four allocation modes can be mixed freely within one
// session:
//
//   - actual: pay exactly what was consumed
//   - fixed:  pay a requested amount, clamped to consumption
//   - ratio:  pay consumption scaled by a per-person ratio
//   - equal:  split whatever remains of the bill evenly
//
// Equal-split participants absorb the entire residual of the subtotal
// after the other modes have been resolved, so custom or scaled
// payments cross-subsidize (or burden) the equal pool. If no one is in
// equal mode the residual is simply left unreconciled; the sum of final
// amounts then only matches the subtotal when everyone pays actual
// consumption.
//
// The package is deliberately free of logging and side effects: it
// reads the session's people and resolves prices through a narrow
// catalog contract.
package settle

import "github.com/tablerun/go-pos-core/internal/domain"

// Menu is the catalog contract the engine needs: dish lookup by id.
// Lines whose id no longer resolves are skipped, not errored, so a
// session survives catalog edits made while it is open.
type Menu interface {
	FindByID(id int) (*domain.Dish, bool)
}

// Share is one person's settlement outcome: what they consumed, what
// they owe, and the payment selection that produced it.
type Share struct {
	Original float64
	Final    float64
	Method   domain.PaymentMethod
	Value    float64
}

// Result is the full settlement of a session. Names preserves the
// session's insertion order for deterministic rendering; Shares is
// keyed by person name; Subtotal is the sum of all Original amounts.
type Result struct {
	Names    []string
	Shares   map[string]Share
	Subtotal float64
}

// Compute settles the given people against menu. The arithmetic does
// not depend on order, but Names follows the input order exactly.
func Compute(people []*domain.PersonOrder, menu Menu) Result {
	res := Result{
		Names:  make([]string, 0, len(people)),
		Shares: make(map[string]Share, len(people)),
	}

	// Pass 1: original consumption per person.
	for _, p := range people {
		original := 0.0
		for _, line := range p.Lines {
			d, ok := menu.FindByID(line.DishID)
			if !ok {
				continue // stale reference, excluded from totals
			}
			original += d.LineTotal(line.Quantity)
		}
		res.Names = append(res.Names, p.Name)
		res.Shares[p.Name] = Share{
			Original: original,
			Final:    original,
			Method:   p.Method,
			Value:    p.Value,
		}
		res.Subtotal += original
	}

	// Pass 2: resolve the non-equal modes.
	equal := make([]string, 0, len(people))
	resolved := 0.0
	for _, name := range res.Names {
		s := res.Shares[name]
		switch s.Method {
		case domain.MethodEqual:
			equal = append(equal, name)
			continue
		case domain.MethodFixed:
			// Never charge more than was consumed.
			if s.Value < s.Original {
				s.Final = s.Value
			}
		case domain.MethodRatio:
			s.Final = s.Original * s.Value
		case domain.MethodActual:
			// pass-through
		}
		res.Shares[name] = s
		resolved += s.Final
	}

	// Pass 3: the equal pool divides the residual evenly.
	if n := len(equal); n > 0 {
		share := (res.Subtotal - resolved) / float64(n)
		for _, name := range equal {
			s := res.Shares[name]
			s.Final = share
			res.Shares[name] = s
		}
	}

	return res
}
