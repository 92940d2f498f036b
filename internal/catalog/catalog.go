// Package catalog – Catalog
//
// This file implements the Catalog, the registry that owns every Dish.
// It assigns identifiers, maintains the known-category set, tracks a
// dirty flag for unsaved changes, and accumulates per-dish sales
// statistics as orders are placed. Dishes are kept in display order;
// identifiers are monotonic and never reused within a catalog's
// lifetime.
package catalog

import (
	"sort"
	"strings"

	"github.com/tablerun/go-pos-core/internal/domain"
)

// Catalog owns an ordered collection of dishes plus the category set.
// It is not safe for concurrent use; the embedding application must
// serialize mutating calls if it is multi-threaded.
type Catalog struct {
	dishes     []*domain.Dish
	categories []string
	nextID     int
	current    string // path of the file this catalog was loaded from / saved to
	dirty      bool
}

// New returns an empty catalog containing only the default category.
func New() *Catalog {
	return &Catalog{
		categories: []string{domain.DefaultCategory},
		nextID:     1,
	}
}

// DishInput carries the caller-supplied fields for Add. Category,
// Description, DialectName, and SpicyLevel are optional.
type DishInput struct {
	Name        string
	Price       float64
	Category    string
	Description string
	DialectName string
	SpicyLevel  domain.SpicyLevel
}

// Add validates in, assigns the next identifier, and appends the new
// dish to the catalog. A new category is registered in the known set.
// The catalog is marked dirty on success.
func (c *Catalog) Add(in DishInput) (*domain.Dish, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	cat := strings.TrimSpace(in.Category)
	if cat == "" {
		cat = domain.DefaultCategory
	}
	d := &domain.Dish{
		ID:          c.nextID,
		Name:        name,
		Price:       in.Price,
		Category:    cat,
		Description: in.Description,
		DialectName: in.DialectName,
		SpicyLevel:  in.SpicyLevel.Normalize(),
		Remarks:     []string{},
	}
	c.dishes = append(c.dishes, d)
	c.nextID++
	c.registerCategory(cat)
	c.dirty = true
	return d, nil
}

// Remove deletes the dish with the given id and reports whether it
// existed. Order sessions referencing the id are not touched; stale
// lines are skipped at settlement time.
func (c *Catalog) Remove(id int) bool {
	for i, d := range c.dishes {
		if d.ID == id {
			c.dishes = append(c.dishes[:i], c.dishes[i+1:]...)
			c.dirty = true
			return true
		}
	}
	return false
}

// DishPatch lists the mutable dish fields for Update. Nil pointers
// leave the corresponding field unchanged, so a patch can never touch
// anything outside this set.
type DishPatch struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	DialectName *string
	SpicyLevel  *domain.SpicyLevel
}

// Update applies the non-nil fields of p to the dish with the given id
// and reports whether the dish existed. Patched fields are validated
// the same way Add validates them; on a validation error nothing is
// applied. A category change to a new label registers it.
func (c *Catalog) Update(id int, p DishPatch) (bool, error) {
	d, ok := c.FindByID(id)
	if !ok {
		return false, nil
	}
	var name string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return false, ErrEmptyName
		}
	}
	if p.Price != nil && *p.Price <= 0 {
		return false, ErrInvalidPrice
	}
	if p.Name != nil {
		d.Name = name
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Category != nil {
		cat := strings.TrimSpace(*p.Category)
		if cat == "" {
			cat = domain.DefaultCategory
		}
		d.Category = cat
		c.registerCategory(cat)
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.DialectName != nil {
		d.DialectName = *p.DialectName
	}
	if p.SpicyLevel != nil {
		d.SpicyLevel = p.SpicyLevel.Normalize()
	}
	c.dirty = true
	return true, nil
}

// FindByID returns the dish with the given id. The returned pointer is
// owned by the catalog; callers must not mutate it directly (use
// Update / RecordSale).
func (c *Catalog) FindByID(id int) (*domain.Dish, bool) {
	for _, d := range c.dishes {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// Get is FindByID with an error for callers that treat absence as a
// failure.
func (c *Catalog) Get(id int) (*domain.Dish, error) {
	d, ok := c.FindByID(id)
	if !ok {
		return nil, ErrDishNotFound
	}
	return d, nil
}

// FindByCategory returns the dishes carrying the given category label,
// preserving catalog order.
func (c *Catalog) FindByCategory(category string) []*domain.Dish {
	var out []*domain.Dish
	for _, d := range c.dishes {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Dishes returns the catalog's dishes in display order. The slice is a
// copy; the pointed-to dishes are shared.
func (c *Catalog) Dishes() []*domain.Dish {
	out := make([]*domain.Dish, len(c.dishes))
	copy(out, c.dishes)
	return out
}

// Count returns the number of dishes in the catalog.
func (c *Catalog) Count() int { return len(c.dishes) }

// TopSelling returns up to limit dishes ordered by descending sales
// count. The sort is stable so ties keep catalog order, which makes
// the ranking deterministic.
func (c *Catalog) TopSelling(limit int) []*domain.Dish {
	ranked := c.Dishes()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SalesCount > ranked[j].SalesCount
	})
	if limit >= 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// RecordSale notes one order event for the dish: the sales counter is
// incremented by exactly one regardless of quantity, and a non-empty
// remark is appended to the dish's remark log. Reports whether the
// dish id resolved.
func (c *Catalog) RecordSale(id int, quantity int, remark string) bool {
	d, ok := c.FindByID(id)
	if !ok {
		return false
	}
	_ = quantity // the counter tracks order events, not units
	d.SalesCount++
	if remark != "" {
		d.Remarks = append(d.Remarks, remark)
	}
	return true
}

// Categories returns the known category labels in registration order.
// The set is a superset of the categories currently in use: labels stay
// registered even after their last dish is removed or recategorized.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// AddCategory registers a category label so it can be offered before
// any dish uses it. Blank and duplicate labels are ignored.
func (c *Catalog) AddCategory(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	for _, have := range c.categories {
		if have == label {
			return
		}
	}
	c.categories = append(c.categories, label)
	c.dirty = true
}

func (c *Catalog) registerCategory(label string) {
	for _, have := range c.categories {
		if have == label {
			return
		}
	}
	c.categories = append(c.categories, label)
}

// SortBy reorders the display order by the given key: "name", "price",
// or "default" (id order). Unknown keys fall back to "default". The
// dirty flag is not touched; display order is cosmetic.
func (c *Catalog) SortBy(key string) {
	switch key {
	case "name":
		sort.SliceStable(c.dishes, func(i, j int) bool { return c.dishes[i].Name < c.dishes[j].Name })
	case "price":
		sort.SliceStable(c.dishes, func(i, j int) bool { return c.dishes[i].Price < c.dishes[j].Price })
	default:
		sort.SliceStable(c.dishes, func(i, j int) bool { return c.dishes[i].ID < c.dishes[j].ID })
	}
}

// Dirty reports whether the catalog has structural changes that have
// not been persisted.
func (c *Catalog) Dirty() bool { return c.dirty }

// CurrentFile returns the path of the file this catalog was last
// loaded from or saved to, or "" for an unsaved catalog.
func (c *Catalog) CurrentFile() string { return c.current }

// NextID returns the identifier the next Add will assign.
func (c *Catalog) NextID() int { return c.nextID }

// MarkSaved records a successful persistence to path: the current-file
// pointer is updated and the dirty flag cleared. Called by the store.
func (c *Catalog) MarkSaved(path string) {
	c.current = path
	c.dirty = false
}

// Rehydrate rebuilds a catalog from persisted state. Dishes keep their
// stored identifiers and statistics; the category set is extended so it
// covers every loaded dish; nextID is raised above stored ids when the
// file's counter lags behind. The result starts clean (not dirty).
func Rehydrate(dishes []domain.Dish, categories []string, nextID int, currentFile string) *Catalog {
	c := New()
	for i := range dishes {
		d := dishes[i]
		if strings.TrimSpace(d.Category) == "" {
			d.Category = domain.DefaultCategory
		}
		d.SpicyLevel = d.SpicyLevel.Normalize()
		if d.Remarks == nil {
			d.Remarks = []string{}
		}
		c.dishes = append(c.dishes, &d)
		c.registerCategory(d.Category)
	}
	for _, label := range categories {
		c.registerCategory(label)
	}
	c.nextID = nextID
	for _, d := range c.dishes {
		if d.ID >= c.nextID {
			c.nextID = d.ID + 1
		}
	}
	if c.nextID < 1 {
		c.nextID = 1
	}
	c.current = currentFile
	c.dirty = false
	return c
}
