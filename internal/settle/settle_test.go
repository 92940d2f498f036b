package settle

import (
	"math"
	"testing"

	"github.com/tablerun/go-pos-core/internal/domain"
)

// fakeMenu resolves dish ids from a fixed price table.
type fakeMenu struct {
	prices map[int]float64
}

func (m fakeMenu) FindByID(id int) (*domain.Dish, bool) {
	p, ok := m.prices[id]
	if !ok {
		return nil, false
	}
	return &domain.Dish{ID: id, Price: p}, true
}

func person(name string, method domain.PaymentMethod, value float64, lines ...domain.OrderLine) *domain.PersonOrder {
	return &domain.PersonOrder{Name: name, Lines: lines, Method: method, Value: value}
}

func line(id, qty int) domain.OrderLine {
	return domain.OrderLine{DishID: id, Quantity: qty}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeRiceSoupScenario(t *testing.T) {
	// Catalog: Rice(1)=10, Soup(2)=20. Alice 2xRice actual, Bob 1xSoup equal.
	menu := fakeMenu{prices: map[int]float64{1: 10, 2: 20}}
	people := []*domain.PersonOrder{
		person("Alice", domain.MethodActual, 0, line(1, 2)),
		person("Bob", domain.MethodEqual, 1, line(2, 1)),
	}

	res := Compute(people, menu)
	if res.Subtotal != 40 {
		t.Fatalf("subtotal = %v; want 40", res.Subtotal)
	}
	if got := res.Shares["Alice"].Final; got != 20 {
		t.Fatalf("Alice final = %v; want 20", got)
	}
	if got := res.Shares["Bob"].Final; got != 20 {
		t.Fatalf("Bob final = %v; want 20", got)
	}
	if len(res.Names) != 2 || res.Names[0] != "Alice" || res.Names[1] != "Bob" {
		t.Fatalf("names = %v; want insertion order", res.Names)
	}
}

func TestComputeFixedClampAndEqualResidual(t *testing.T) {
	// Three people, originals 30/50/20 (S=100). One fixed at 40, clamped to
	// min(40,30)=30; the two equal-split people share (100-30)/2 = 35 each.
	menu := fakeMenu{prices: map[int]float64{1: 10}}
	people := []*domain.PersonOrder{
		person("Fay", domain.MethodFixed, 40, line(1, 3)),
		person("Eve", domain.MethodEqual, 1, line(1, 5)),
		person("Gil", domain.MethodEqual, 1, line(1, 2)),
	}

	res := Compute(people, menu)
	if res.Subtotal != 100 {
		t.Fatalf("subtotal = %v; want 100", res.Subtotal)
	}
	if got := res.Shares["Fay"].Final; got != 30 {
		t.Fatalf("fixed clamp = %v; want 30", got)
	}
	if got := res.Shares["Eve"].Final; got != 35 {
		t.Fatalf("Eve final = %v; want 35", got)
	}
	if got := res.Shares["Gil"].Final; got != 35 {
		t.Fatalf("Gil final = %v; want 35", got)
	}
}

func TestComputeFixedNeverExceedsConsumption(t *testing.T) {
	menu := fakeMenu{prices: map[int]float64{1: 10}}
	cases := []struct {
		value float64
		want  float64
	}{
		{5, 5},
		{30, 30},   // exactly the consumption: no-op clamp
		{31, 30},   // above consumption: clamped
		{9999, 30}, // far above: clamped
	}
	for _, tc := range cases {
		people := []*domain.PersonOrder{person("P", domain.MethodFixed, tc.value, line(1, 3))}
		res := Compute(people, menu)
		if got := res.Shares["P"].Final; got != tc.want {
			t.Errorf("fixed %v: final = %v; want %v", tc.value, got, tc.want)
		}
	}
}

func TestComputeRatioIndependentScaling(t *testing.T) {
	menu := fakeMenu{prices: map[int]float64{1: 10, 2: 20}}
	people := []*domain.PersonOrder{
		person("Ann", domain.MethodRatio, 0.5, line(1, 4)), // 40 * 0.5 = 20
		person("Ben", domain.MethodRatio, 1.5, line(2, 1)), // 20 * 1.5 = 30
	}
	res := Compute(people, menu)
	if got := res.Shares["Ann"].Final; !approx(got, 20) {
		t.Fatalf("Ann final = %v; want 20", got)
	}
	if got := res.Shares["Ben"].Final; !approx(got, 30) {
		t.Fatalf("Ben final = %v; want 30", got)
	}
	// No equal-split people: the residual is left unreconciled.
	sum := res.Shares["Ann"].Final + res.Shares["Ben"].Final
	if approx(sum, res.Subtotal) {
		t.Fatalf("sum %v should not equal subtotal %v here", sum, res.Subtotal)
	}
}

func TestComputeAllActualSumsToSubtotal(t *testing.T) {
	menu := fakeMenu{prices: map[int]float64{1: 10, 2: 20, 3: 7.5}}
	people := []*domain.PersonOrder{
		person("A", domain.MethodActual, 0, line(1, 1), line(3, 2)),
		person("B", domain.MethodActual, 0, line(2, 3)),
		person("C", domain.MethodActual, 0),
	}
	res := Compute(people, menu)
	sum := 0.0
	for _, s := range res.Shares {
		sum += s.Final
	}
	if !approx(sum, res.Subtotal) {
		t.Fatalf("sum of finals %v != subtotal %v", sum, res.Subtotal)
	}
	if got := res.Shares["C"].Original; got != 0 {
		t.Fatalf("empty order original = %v; want 0", got)
	}
}

func TestComputeEqualAbsorbsRatioAndFixedResidual(t *testing.T) {
	// Mixed modes: the equal pool covers exactly S - F.
	menu := fakeMenu{prices: map[int]float64{1: 10}}
	people := []*domain.PersonOrder{
		person("Act", domain.MethodActual, 0, line(1, 2)), // 20 -> 20
		person("Rat", domain.MethodRatio, 0.5, line(1, 4)), // 40 -> 20
		person("Fix", domain.MethodFixed, 100, line(1, 1)), // 10 -> 10 (clamped)
		person("Eq1", domain.MethodEqual, 1, line(1, 3)),   // 30
		person("Eq2", domain.MethodEqual, 1),               // 0
	}
	res := Compute(people, menu)
	// S = 100, F = 20+20+10 = 50, each equal person pays 25.
	if got := res.Shares["Eq1"].Final; !approx(got, 25) {
		t.Fatalf("Eq1 final = %v; want 25", got)
	}
	if got := res.Shares["Eq2"].Final; !approx(got, 25) {
		t.Fatalf("Eq2 final = %v; want 25", got)
	}
	sum := 0.0
	for _, s := range res.Shares {
		sum += s.Final
	}
	if !approx(sum, res.Subtotal) {
		t.Fatalf("with an equal pool, finals %v must sum to subtotal %v", sum, res.Subtotal)
	}
}

func TestComputeSkipsStaleDishIDs(t *testing.T) {
	menu := fakeMenu{prices: map[int]float64{1: 10}}
	people := []*domain.PersonOrder{
		person("A", domain.MethodActual, 0, line(1, 2), line(99, 5)),
	}
	res := Compute(people, menu)
	if res.Subtotal != 20 {
		t.Fatalf("subtotal = %v; want 20 (stale line excluded)", res.Subtotal)
	}
	if got := res.Shares["A"].Original; got != 20 {
		t.Fatalf("original = %v; want 20", got)
	}
}

func TestComputeSubtotalInvariantAcrossMixes(t *testing.T) {
	menu := fakeMenu{prices: map[int]float64{1: 10, 2: 20}}
	lines := [][]domain.OrderLine{
		{line(1, 2)},
		{line(2, 1), line(1, 1)},
		{line(2, 2)},
	}
	mixes := [][3]domain.PaymentMethod{
		{domain.MethodActual, domain.MethodActual, domain.MethodActual},
		{domain.MethodEqual, domain.MethodEqual, domain.MethodEqual},
		{domain.MethodFixed, domain.MethodRatio, domain.MethodEqual},
		{domain.MethodRatio, domain.MethodFixed, domain.MethodActual},
	}
	for _, mix := range mixes {
		people := []*domain.PersonOrder{
			person("A", mix[0], 1, lines[0]...),
			person("B", mix[1], 1, lines[1]...),
			person("C", mix[2], 1, lines[2]...),
		}
		res := Compute(people, menu)
		if !approx(res.Subtotal, 90) {
			t.Fatalf("mix %v: subtotal = %v; want 90", mix, res.Subtotal)
		}
	}
}

func TestComputeEmptySession(t *testing.T) {
	res := Compute(nil, fakeMenu{})
	if res.Subtotal != 0 || len(res.Names) != 0 || len(res.Shares) != 0 {
		t.Fatalf("empty compute = %+v", res)
	}
}
