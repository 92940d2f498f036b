// Package domain defines the core data model for the point-of-sale library:
// catalog dishes, order lines, per-person orders, and finalized history
// entries. The JSON mapping of these types is the on-disk catalog-file and
// order-file format, so field tags here are load-bearing.
package domain

import (
	"encoding/json"
	"fmt"
)

// TimestampLayout is the wall-clock format used in history entries and
// order files.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultCategory is assigned to dishes created or loaded without an
// explicit category.
const DefaultCategory = "uncategorized"

// SpicyLevel is the ordinal heat rating of a dish, from SpicyNone (0)
// to SpicyHot (3). It serializes as a plain integer.
type SpicyLevel int

const (
	SpicyNone SpicyLevel = iota
	SpicyMild
	SpicyMedium
	SpicyHot
)

// String returns a short human-readable label for the level. Unknown
// values render as "none".
func (s SpicyLevel) String() string {
	switch s {
	case SpicyMild:
		return "mild"
	case SpicyMedium:
		return "medium"
	case SpicyHot:
		return "hot"
	default:
		return "none"
	}
}

// Normalize clamps out-of-range values (e.g. from a hand-edited file)
// back to SpicyNone.
func (s SpicyLevel) Normalize() SpicyLevel {
	if s < SpicyNone || s > SpicyHot {
		return SpicyNone
	}
	return s
}

// Dish is a sellable catalog item. Identity is the integer ID, assigned
// once by the catalog and never reused. SalesCount and Remarks are
// statistics accumulated through order placement, not through edits.
//
// Fields:
//   - ID: positive, catalog-assigned identifier.
//   - Name: display name; never empty.
//   - Price: unit price; positive.
//   - Category: free-text label, DefaultCategory when unset.
//   - DialectName: optional alternate/regional name.
//   - SpicyLevel: heat rating (serialized as "is_spicy" for file
//     compatibility).
//   - SalesCount: number of order events that included this dish.
//   - Remarks: customer remarks accumulated across orders, oldest first.
type Dish struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	DialectName string     `json:"dialect_name"`
	SpicyLevel  SpicyLevel `json:"is_spicy"`
	SalesCount  int        `json:"sales_count"`
	Remarks     []string   `json:"remarks"`
}

// LineTotal returns the price of qty units of the dish.
func (d *Dish) LineTotal(qty int) float64 {
	return d.Price * float64(qty)
}

// PaymentMethod selects how a person's share of the bill is computed
// at settlement time.
type PaymentMethod string

const (
	// MethodActual charges exactly what the person consumed.
	MethodActual PaymentMethod = "actual"
	// MethodEqual splits the remaining bill evenly among everyone in
	// this mode, after all other modes have been resolved.
	MethodEqual PaymentMethod = "equal"
	// MethodRatio charges the person's consumption scaled by their
	// stored ratio, independently of other participants.
	MethodRatio PaymentMethod = "ratio"
	// MethodFixed charges a requested fixed amount, clamped so it never
	// exceeds the person's consumption.
	MethodFixed PaymentMethod = "fixed"
)

// ParsePaymentMethod maps a user- or file-supplied token to a
// PaymentMethod. Matching is case-insensitive; "aa" is accepted as an
// alias for the equal split.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(lower(s)) {
	case MethodActual:
		return MethodActual, nil
	case MethodEqual, "aa":
		return MethodEqual, nil
	case MethodRatio:
		return MethodRatio, nil
	case MethodFixed:
		return MethodFixed, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Valid reports whether m is one of the four defined methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodActual, MethodEqual, MethodRatio, MethodFixed:
		return true
	}
	return false
}

// lower is a dependency-free ASCII lowercase; payment tokens are ASCII.
func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// OrderLine is one requested dish within a person's order. It references
// the dish by ID only; the price is resolved against the catalog at
// settlement time, so later price edits affect unsettled totals.
//
// On the wire an OrderLine is the triple [dishID, quantity, remark],
// matching the order-file format.
type OrderLine struct {
	DishID   int
	Quantity int
	Remark   string
}

// MarshalJSON encodes the line as the [id, qty, remark] triple.
func (l OrderLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.DishID, l.Quantity, l.Remark})
}

// UnmarshalJSON decodes the [id, qty, remark] triple. A two-element
// form without remark is tolerated for hand-written files.
func (l *OrderLine) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 || len(raw) > 3 {
		return fmt.Errorf("order line must have 2 or 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &l.DishID); err != nil {
		return fmt.Errorf("order line dish id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &l.Quantity); err != nil {
		return fmt.Errorf("order line quantity: %w", err)
	}
	l.Remark = ""
	if len(raw) == 3 {
		if err := json.Unmarshal(raw[2], &l.Remark); err != nil {
			return fmt.Errorf("order line remark: %w", err)
		}
	}
	return nil
}

// PersonOrder is one named participant's in-progress order within a
// session: their line items plus the payment-allocation selection.
// New people default to the equal split with a neutral value of 1.
type PersonOrder struct {
	Name   string
	Lines  []OrderLine
	Method PaymentMethod
	Value  float64
}

// NewPersonOrder creates an empty order for name with the default
// payment selection.
func NewPersonOrder(name string) *PersonOrder {
	return &PersonOrder{Name: name, Method: MethodEqual, Value: 1.0}
}

// PersonSnapshot is the immutable per-person slice of a HistoryEntry:
// the line items and payment selection as they stood at finalization.
type PersonSnapshot struct {
	Items         []OrderLine   `json:"items"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentValue  float64       `json:"payment_value"`
}

// HistoryEntry is a finalized order session. Entries are append-only
// and never mutated. Dish prices are deliberately not snapshotted;
// analytics re-resolve them against the live catalog.
//
// ID is a UUID assigned at finalization. It is omitted from JSON when
// empty so files written by older versions round-trip unchanged.
type HistoryEntry struct {
	ID        string                    `json:"id,omitempty"`
	Table     string                    `json:"table"`
	Timestamp string                    `json:"timestamp"`
	Orders    map[string]PersonSnapshot `json:"orders"`
}
