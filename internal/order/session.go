// Package order – Session
//
// This file implements the Session, the set of per-person orders for
// the currently active table. A session references catalog dishes by id
// only; totals are resolved at settlement time, so catalog edits made
// while a table is open take effect retroactively.
//
// Placing a line item records a sale against the catalog (counter and
// remark log). That cross-component effect is a deliberate, narrow
// dependency edge: it is the only way catalog statistics accumulate.
// Removing or clearing items does not undo it.
//
// Instead of a hidden event bus, interested callers register change
// callbacks with OnChange; every successful mutation notifies them.
package order

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tablerun/go-pos-core/internal/catalog"
	"github.com/tablerun/go-pos-core/internal/domain"
	"github.com/tablerun/go-pos-core/internal/history"
	"github.com/tablerun/go-pos-core/internal/metrics"
	"github.com/tablerun/go-pos-core/internal/settle"
)

// Session holds the active table's orders. People keep insertion order,
// which makes settlement output and snapshots deterministic. Not safe
// for concurrent use.
type Session struct {
	menu      *catalog.Catalog
	hist      *history.Log
	table     string
	people    []*domain.PersonOrder
	index     map[string]*domain.PersonOrder
	observers []func()

	now func() time.Time
}

// NewSession creates an empty session backed by menu. Finalized entries
// are appended to hist; pass nil to let the caller collect them.
func NewSession(menu *catalog.Catalog, hist *history.Log) *Session {
	return &Session{
		menu:  menu,
		hist:  hist,
		index: make(map[string]*domain.PersonOrder),
		now:   time.Now,
	}
}

// SetTable sets the free-text table label for the session.
func (s *Session) SetTable(label string) {
	s.table = label
	s.notify()
}

// Table returns the current table label.
func (s *Session) Table() string { return s.table }

// AddPerson adds a named participant with an empty order. Re-adding an
// existing name is a no-op, not an error; the existing order is
// returned either way.
func (s *Session) AddPerson(name string) *domain.PersonOrder {
	if p, ok := s.index[name]; ok {
		return p
	}
	p := domain.NewPersonOrder(name)
	s.people = append(s.people, p)
	s.index[name] = p
	s.notify()
	return p
}

// RemovePerson drops a participant and their items. Unknown names are
// ignored.
func (s *Session) RemovePerson(name string) {
	if _, ok := s.index[name]; !ok {
		return
	}
	delete(s.index, name)
	for i, p := range s.people {
		if p.Name == name {
			s.people = append(s.people[:i], s.people[i+1:]...)
			break
		}
	}
	s.notify()
}

// Person returns the named participant's order, if present.
func (s *Session) Person(name string) (*domain.PersonOrder, bool) {
	p, ok := s.index[name]
	return p, ok
}

// People returns the participants in insertion order. The slice is a
// copy; the pointed-to orders are shared.
func (s *Session) People() []*domain.PersonOrder {
	out := make([]*domain.PersonOrder, len(s.people))
	copy(out, s.people)
	return out
}

// AddItem appends a line item to the named person's order and records
// the sale against the catalog. The dish id is not required to resolve
// here; a stale id simply records nothing and is skipped at settlement.
func (s *Session) AddItem(person string, dishID, quantity int, remark string) error {
	p, ok := s.index[person]
	if !ok {
		return ErrPersonNotFound
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	p.Lines = append(p.Lines, domain.OrderLine{DishID: dishID, Quantity: quantity, Remark: remark})
	if s.menu.RecordSale(dishID, quantity, remark) {
		metrics.SalesRecorded.Inc()
	}
	s.notify()
	return nil
}

// UpdateItem replaces the quantity and remark of an existing line.
// Unlike AddItem it records no sale; an edit is not a new order event.
func (s *Session) UpdateItem(person string, index, quantity int, remark string) error {
	p, ok := s.index[person]
	if !ok {
		return ErrPersonNotFound
	}
	if index < 0 || index >= len(p.Lines) {
		return ErrItemIndex
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	p.Lines[index].Quantity = quantity
	p.Lines[index].Remark = remark
	s.notify()
	return nil
}

// RemoveItem deletes the line at index from the person's order. Sales
// counters are not decremented.
func (s *Session) RemoveItem(person string, index int) error {
	p, ok := s.index[person]
	if !ok {
		return ErrPersonNotFound
	}
	if index < 0 || index >= len(p.Lines) {
		return ErrItemIndex
	}
	p.Lines = append(p.Lines[:index], p.Lines[index+1:]...)
	s.notify()
	return nil
}

// ClearItems removes every line from the person's order.
func (s *Session) ClearItems(person string) error {
	p, ok := s.index[person]
	if !ok {
		return ErrPersonNotFound
	}
	p.Lines = nil
	s.notify()
	return nil
}

// SetPaymentMethod records how the person will pay. Ratio and fixed
// selections need a positive value; the value is ignored for actual
// and equal modes but stored as given.
func (s *Session) SetPaymentMethod(person string, method domain.PaymentMethod, value float64) error {
	p, ok := s.index[person]
	if !ok {
		return ErrPersonNotFound
	}
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}
	if (method == domain.MethodRatio || method == domain.MethodFixed) && value <= 0 {
		return ErrInvalidPaymentMethod
	}
	p.Method = method
	p.Value = value
	s.notify()
	return nil
}

// Settle computes the current amounts due without mutating anything.
func (s *Session) Settle() settle.Result {
	return settle.Compute(s.people, s.menu)
}

// Finalize snapshots the session into a history entry and appends it
// to the log. The session itself is left intact; callers decide
// whether to Reset afterwards.
func (s *Session) Finalize() (domain.HistoryEntry, error) {
	if len(s.people) == 0 {
		return domain.HistoryEntry{}, ErrEmptySession
	}
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Table:     s.table,
		Timestamp: s.now().Format(domain.TimestampLayout),
		Orders:    make(map[string]domain.PersonSnapshot, len(s.people)),
	}
	for _, p := range s.people {
		items := make([]domain.OrderLine, len(p.Lines))
		copy(items, p.Lines)
		entry.Orders[p.Name] = domain.PersonSnapshot{
			Items:         items,
			PaymentMethod: p.Method,
			PaymentValue:  p.Value,
		}
	}
	if s.hist != nil {
		s.hist.Append(entry)
	}
	metrics.SessionsFinalized.Inc()
	return entry, nil
}

// Reset discards all people, their items, and the table label.
func (s *Session) Reset() {
	s.people = nil
	s.index = make(map[string]*domain.PersonOrder)
	s.table = ""
	s.notify()
}

// Restore replaces the session's state with a previously saved entry,
// replaying each item through AddItem so the usual sale side effects
// apply. People are restored in name order for determinism (the entry
// stores them as a map).
func (s *Session) Restore(entry domain.HistoryEntry) error {
	s.Reset()
	s.table = entry.Table

	names := make([]string, 0, len(entry.Orders))
	for name := range entry.Orders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		snap := entry.Orders[name]
		s.AddPerson(name)
		for _, line := range snap.Items {
			if err := s.AddItem(name, line.DishID, line.Quantity, line.Remark); err != nil {
				return err
			}
		}
		if err := s.SetPaymentMethod(name, snap.PaymentMethod, snap.PaymentValue); err != nil {
			return err
		}
	}
	return nil
}

// OnChange registers fn to run after every successful mutation of the
// session. Callbacks run synchronously, in registration order.
func (s *Session) OnChange(fn func()) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

func (s *Session) notify() {
	for _, fn := range s.observers {
		fn()
	}
}
