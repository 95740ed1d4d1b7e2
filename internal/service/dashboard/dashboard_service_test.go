package dashboard

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func inventory(sku, line string, onHand int, lastCount time.Time) models.InventoryRecord {
	return models.NewInventoryRecord(sku, line, onHand, 10, lastCount, decimal.NewFromFloat(1.5))
}

func purchase(po, line string, orderDate time.Time) models.PurchaseOrderRecord {
	return models.PurchaseOrderRecord{
		PO:          po,
		ProductLine: line,
		SKU:         "SKU-001",
		QtyOrdered:  10,
		QtyReceived: 5,
		OrderDate:   orderDate,
		ETA:         orderDate.AddDate(0, 0, 3),
		Status:      models.StatusOpen,
	}
}

func TestStockoutScenario(t *testing.T) {
	inv := []models.InventoryRecord{
		inventory("SKU-001", "Engine", 0, date(2026, 1, 1)),
		inventory("SKU-002", "Brake", 10, date(2026, 1, 1)),
	}

	filtered := FilterInventory(inv, []string{"Engine"})
	if len(filtered) != 1 || filtered[0].SKU != "SKU-001" {
		t.Fatalf("filtered = %+v", filtered)
	}

	kpis := ComputeKPIs(filtered)
	if kpis.TotalSKUs != 1 {
		t.Fatalf("total skus = %d", kpis.TotalSKUs)
	}
	if kpis.TotalQtyOnHand != 0 {
		t.Fatalf("total qty = %d", kpis.TotalQtyOnHand)
	}
	if !kpis.StockoutRate.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("stockout rate = %s, want 100", kpis.StockoutRate)
	}
}

func TestComputeKPIs(t *testing.T) {
	tests := []struct {
		name     string
		onHand   []int
		wantQty  int
		wantRate string
	}{
		{name: "empty", onHand: nil, wantQty: 0, wantRate: "0"},
		{name: "no stockouts", onHand: []int{4, 6}, wantQty: 10, wantRate: "0"},
		{name: "one third", onHand: []int{0, 1, 2}, wantQty: 3, wantRate: "33.3"},
		{name: "two thirds", onHand: []int{0, 0, 2}, wantQty: 2, wantRate: "66.7"},
		{name: "half to even", onHand: append([]int{0}, repeat(1, 15)...), wantQty: 15, wantRate: "6.2"},
		{name: "exact decimal tie", onHand: append(repeat(0, 23), repeat(1, 57)...), wantQty: 57, wantRate: "28.8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := make([]models.InventoryRecord, 0, len(tc.onHand))
			for _, q := range tc.onHand {
				inv = append(inv, inventory("SKU", "Engine", q, date(2026, 1, 1)))
			}
			kpis := ComputeKPIs(inv)
			if kpis.TotalSKUs != len(tc.onHand) {
				t.Fatalf("total skus = %d", kpis.TotalSKUs)
			}
			if kpis.TotalQtyOnHand != tc.wantQty {
				t.Fatalf("total qty = %d, want %d", kpis.TotalQtyOnHand, tc.wantQty)
			}
			if kpis.StockoutRate.String() != tc.wantRate {
				t.Fatalf("stockout rate = %s, want %s", kpis.StockoutRate, tc.wantRate)
			}
			if kpis.StockoutRate.IsNegative() || kpis.StockoutRate.GreaterThan(decimal.NewFromInt(100)) {
				t.Fatalf("stockout rate %s outside [0, 100]", kpis.StockoutRate)
			}
		})
	}
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestFilterInventoryIsIdempotent(t *testing.T) {
	inv := []models.InventoryRecord{
		inventory("SKU-001", "Engine", 1, date(2026, 1, 1)),
		inventory("SKU-002", "Brake", 2, date(2026, 1, 1)),
		inventory("SKU-003", "Body", 3, date(2026, 1, 1)),
		inventory("SKU-004", "Engine", 4, date(2026, 1, 1)),
	}
	lines := []string{"Engine", "Body"}

	once := FilterInventory(inv, lines)
	twice := FilterInventory(once, lines)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %+v vs %+v", once, twice)
	}
	if len(once) != 3 {
		t.Fatalf("filtered rows = %d, want 3", len(once))
	}
	if got := FilterInventory(inv, nil); len(got) != 0 {
		t.Fatalf("empty selection kept %d rows", len(got))
	}
}

func TestFilterPurchasesDateWindow(t *testing.T) {
	pos := []models.PurchaseOrderRecord{
		purchase("PO-1", "Engine", date(2026, 2, 28)),
		purchase("PO-2", "Engine", date(2026, 3, 1)),
		purchase("PO-3", "Engine", date(2026, 3, 15)),
		purchase("PO-4", "Engine", date(2026, 3, 31)),
		purchase("PO-5", "Engine", date(2026, 4, 1)),
		purchase("PO-6", "Brake", date(2026, 3, 10)),
	}

	got := FilterPurchases(pos, []string{"Engine"}, date(2026, 3, 1), date(2026, 3, 31))
	var ids []string
	for _, po := range got {
		ids = append(ids, po.PO)
	}
	want := []string{"PO-2", "PO-3", "PO-4"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("filtered = %v, want %v", ids, want)
	}
}

func TestFilterPurchasesIgnoresTimeOfDay(t *testing.T) {
	pos := []models.PurchaseOrderRecord{
		purchase("PO-1", "Engine", time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)),
	}
	got := FilterPurchases(pos, []string{"Engine"}, date(2026, 3, 1), time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC))
	if len(got) != 1 {
		t.Fatalf("order on the end date was excluded")
	}
}

func TestInventoryByLine(t *testing.T) {
	inv := []models.InventoryRecord{
		inventory("SKU-001", "Engine", 5, date(2026, 1, 1)),
		inventory("SKU-002", "Brake", 2, date(2026, 1, 1)),
		inventory("SKU-003", "Engine", 7, date(2026, 1, 1)),
	}

	got := InventoryByLine(inv)
	want := []models.LineTotal{
		{ProductLine: "Brake", QtyOnHand: 2},
		{ProductLine: "Engine", QtyOnHand: 12},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("by line = %+v, want %+v", got, want)
	}
}

func TestCycleCounts(t *testing.T) {
	today := time.Date(2026, 6, 1, 17, 45, 0, 0, time.UTC)
	inv := []models.InventoryRecord{
		inventory("SKU-001", "Engine", 1, date(2026, 1, 1)),  // due 2026-04-01
		inventory("SKU-002", "Engine", 1, date(2026, 3, 3)),  // due 2026-06-01
		inventory("SKU-003", "Engine", 1, date(2026, 5, 20)), // due 2026-08-18
	}

	rows := CycleCounts(inv, today)
	want := []int{61, 0, -78}
	for i, row := range rows {
		if row.DaysOverdue != want[i] {
			t.Fatalf("%s: days overdue = %d, want %d", row.SKU, row.DaysOverdue, want[i])
		}
		if !row.NextScheduledCount.Equal(inv[i].NextScheduledCount) {
			t.Fatalf("%s: next count changed", row.SKU)
		}
	}
}

func TestDefaultSelection(t *testing.T) {
	tables := models.Tables{
		Inventory: []models.InventoryRecord{
			inventory("SKU-001", "Engine", 1, date(2026, 1, 1)),
			inventory("SKU-002", "Brake", 1, date(2026, 1, 1)),
			inventory("SKU-003", "Engine", 1, date(2026, 1, 1)),
		},
		Purchases: []models.PurchaseOrderRecord{
			purchase("PO-1", "Engine", date(2026, 3, 5)),
			purchase("PO-2", "Body", date(2026, 1, 9)),
			purchase("PO-3", "Brake", date(2026, 4, 2)),
		},
	}

	sel := DefaultSelection(tables)
	if !reflect.DeepEqual(sel.Lines, []string{"Brake", "Engine"}) {
		t.Fatalf("lines = %v", sel.Lines)
	}
	if !sel.Start.Equal(date(2026, 1, 9)) || !sel.End.Equal(date(2026, 4, 2)) {
		t.Fatalf("range = %s..%s", sel.Start, sel.End)
	}
}

func TestBuild(t *testing.T) {
	tables := models.Tables{
		Inventory: []models.InventoryRecord{
			inventory("SKU-001", "Engine", 0, date(2026, 1, 1)),
			inventory("SKU-002", "Brake", 10, date(2026, 1, 1)),
		},
		Purchases: []models.PurchaseOrderRecord{
			purchase("PO-1", "Engine", date(2026, 3, 5)),
			purchase("PO-2", "Engine", date(2025, 12, 1)),
			purchase("PO-3", "Brake", date(2026, 3, 5)),
		},
	}
	svc := NewService(nil).WithClock(func() time.Time { return date(2026, 4, 11) })

	view := svc.Build(tables, models.Selection{Lines: []string{"Engine"}, Start: date(2026, 1, 1), End: date(2026, 12, 31)})

	if view.KPIs.TotalSKUs != 1 || !view.KPIs.StockoutRate.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("kpis = %+v", view.KPIs)
	}
	if len(view.ByLine) != 1 || view.ByLine[0].ProductLine != "Engine" {
		t.Fatalf("by line = %+v", view.ByLine)
	}
	if len(view.CycleCounts) != 1 || view.CycleCounts[0].DaysOverdue != 10 {
		t.Fatalf("cycle counts = %+v", view.CycleCounts)
	}
	if len(view.Purchases) != 1 || view.Purchases[0].PO != "PO-1" {
		t.Fatalf("purchases = %+v", view.Purchases)
	}
}
