package generator

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)
}

func newTestGenerator(opts Options) *Generator {
	return New(opts, nil).WithClock(fixedClock)
}

func TestGenerateSizes(t *testing.T) {
	tables := newTestGenerator(DefaultOptions()).Generate()

	if len(tables.Inventory) != DefaultProducts {
		t.Fatalf("inventory rows = %d, want %d", len(tables.Inventory), DefaultProducts)
	}
	if len(tables.Purchases) != DefaultPurchaseOrders {
		t.Fatalf("purchase rows = %d, want %d", len(tables.Purchases), DefaultPurchaseOrders)
	}
	if got := tables.Inventory[0].SKU; got != "SKU-001" {
		t.Fatalf("first sku = %q", got)
	}
	if got := tables.Inventory[49].SKU; got != "SKU-050" {
		t.Fatalf("last sku = %q", got)
	}
	if got := tables.Purchases[0].PO; got != "PO-1000" {
		t.Fatalf("first po = %q", got)
	}
	if got := tables.Purchases[99].PO; got != "PO-1099" {
		t.Fatalf("last po = %q", got)
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	g := newTestGenerator(DefaultOptions())
	a := g.Generate()
	b := g.Generate()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two runs with the same seed differ")
	}

	other := newTestGenerator(Options{Seed: 7}).Generate()
	if reflect.DeepEqual(a.Purchases, other.Purchases) {
		t.Fatalf("different seeds produced identical purchases")
	}
}

func TestInventoryInvariants(t *testing.T) {
	today := models.Day(fixedClock())
	lines := make(map[string]bool)
	for _, l := range models.ProductLines {
		lines[l] = true
	}

	for _, rec := range newTestGenerator(DefaultOptions()).Inventory() {
		if !rec.NextScheduledCount.Equal(rec.LastCountDate.AddDate(0, 0, 90)) {
			t.Fatalf("%s: next count %s is not 90 days after %s", rec.SKU, rec.NextScheduledCount, rec.LastCountDate)
		}
		if models.DaysBetween(rec.LastCountDate, rec.NextScheduledCount) != models.CycleCountDays {
			t.Fatalf("%s: interval = %s", rec.SKU, rec.NextScheduledCount.Sub(rec.LastCountDate))
		}
		if !lines[rec.ProductLine] {
			t.Fatalf("%s: unknown product line %q", rec.SKU, rec.ProductLine)
		}
		if rec.QtyOnHand < 0 || rec.QtyOnHand >= 100 {
			t.Fatalf("%s: qty on hand %d out of range", rec.SKU, rec.QtyOnHand)
		}
		if rec.ReorderPoint < 10 || rec.ReorderPoint >= 50 {
			t.Fatalf("%s: reorder point %d out of range", rec.SKU, rec.ReorderPoint)
		}
		age := models.DaysBetween(rec.LastCountDate, today)
		if age < 0 || age >= countLookbackDays {
			t.Fatalf("%s: last count %d days ago", rec.SKU, age)
		}
		if rec.VariancePct.LessThan(decimal.NewFromInt(-20)) || rec.VariancePct.GreaterThan(decimal.NewFromInt(40)) {
			t.Fatalf("%s: variance %s out of range", rec.SKU, rec.VariancePct)
		}
		if !rec.VariancePct.Equal(rec.VariancePct.Round(1)) {
			t.Fatalf("%s: variance %s has more than one decimal", rec.SKU, rec.VariancePct)
		}
	}
}

func TestPurchaseInvariants(t *testing.T) {
	skus := make(map[string]bool)
	for i := 1; i <= DefaultProducts; i++ {
		skus[fmt.Sprintf("SKU-%03d", i)] = true
	}

	for _, po := range newTestGenerator(DefaultOptions()).Purchases() {
		if po.QtyOrdered < 1 {
			t.Fatalf("%s: qty ordered %d", po.PO, po.QtyOrdered)
		}
		if po.QtyReceived < 0 || po.QtyReceived > po.QtyOrdered {
			t.Fatalf("%s: received %d of %d", po.PO, po.QtyReceived, po.QtyOrdered)
		}
		if !po.ETA.After(po.OrderDate) {
			t.Fatalf("%s: eta %s not after order date %s", po.PO, po.ETA, po.OrderDate)
		}
		if d := models.DaysBetween(po.OrderDate, po.ETA); d < 1 || d > 29 {
			t.Fatalf("%s: eta offset %d days", po.PO, d)
		}
		if !po.Status.Valid() {
			t.Fatalf("%s: invalid status %q", po.PO, po.Status)
		}
		if !skus[po.SKU] {
			t.Fatalf("%s: sku %q not in generated set", po.PO, po.SKU)
		}
	}
}

func TestStatusDistribution(t *testing.T) {
	tables := newTestGenerator(Options{Products: 10, PurchaseOrders: 20000, Seed: 1}).Generate()

	counts := make(map[models.POStatus]int)
	for _, po := range tables.Purchases {
		counts[po.Status]++
	}
	for _, ws := range statusWeights {
		got := float64(counts[ws.status]) / float64(len(tables.Purchases))
		if diff := got - ws.weight; diff > 0.02 || diff < -0.02 {
			t.Fatalf("status %q frequency %.3f, want about %.2f", ws.status, got, ws.weight)
		}
	}
}
