package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// Service builds the dashboard view from inventory and purchasing tables.
type Service struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new dashboard service instance.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, now: time.Now}
}

// WithClock returns a copy of s that reads "today" from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

// Build filters the tables by sel and computes every aggregate of the view.
func (s *Service) Build(tables models.Tables, sel models.Selection) models.View {
	inventory := FilterInventory(tables.Inventory, sel.Lines)
	purchases := FilterPurchases(tables.Purchases, sel.Lines, sel.Start, sel.End)

	view := models.View{
		Selection:   sel,
		KPIs:        ComputeKPIs(inventory),
		ByLine:      InventoryByLine(inventory),
		CycleCounts: CycleCounts(inventory, s.now()),
		Purchases:   purchases,
	}

	if len(inventory) == 0 {
		s.logger.Debug("no inventory rows match selection; stockout rate reported as zero", zap.Strings("lines", sel.Lines))
	}
	s.logger.Debug("dashboard view built",
		zap.Int("inventory_rows", len(inventory)),
		zap.Int("purchase_rows", len(purchases)),
		zap.String("start", sel.Start.Format(models.DateLayout)),
		zap.String("end", sel.End.Format(models.DateLayout)))

	return view
}

// DefaultSelection selects every product line present in the inventory and
// the full order-date span of the purchases.
func DefaultSelection(tables models.Tables) models.Selection {
	sel := models.Selection{Lines: ProductLineOptions(tables.Inventory)}

	for i, po := range tables.Purchases {
		d := models.Day(po.OrderDate)
		if i == 0 || d.Before(sel.Start) {
			sel.Start = d
		}
		if i == 0 || d.After(sel.End) {
			sel.End = d
		}
	}
	return sel
}

// ProductLineOptions returns the sorted distinct product lines of inv.
func ProductLineOptions(inv []models.InventoryRecord) []string {
	seen := make(map[string]struct{}, len(inv))
	lines := make([]string, 0)
	for _, rec := range inv {
		if _, ok := seen[rec.ProductLine]; ok {
			continue
		}
		seen[rec.ProductLine] = struct{}{}
		lines = append(lines, rec.ProductLine)
	}
	sort.Strings(lines)
	return lines
}

// FilterInventory keeps the rows whose product line is selected.
func FilterInventory(inv []models.InventoryRecord, lines []string) []models.InventoryRecord {
	selected := lineSet(lines)
	out := make([]models.InventoryRecord, 0, len(inv))
	for _, rec := range inv {
		if _, ok := selected[rec.ProductLine]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// FilterPurchases keeps the rows whose product line is selected and whose
// order date lies within [start, end], both ends inclusive.
func FilterPurchases(pos []models.PurchaseOrderRecord, lines []string, start, end time.Time) []models.PurchaseOrderRecord {
	selected := lineSet(lines)
	start, end = models.Day(start), models.Day(end)

	out := make([]models.PurchaseOrderRecord, 0, len(pos))
	for _, po := range pos {
		if _, ok := selected[po.ProductLine]; !ok {
			continue
		}
		d := models.Day(po.OrderDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, po)
	}
	return out
}

// ComputeKPIs returns the SKU count, total quantity on hand and stockout rate.
// An empty inventory has a stockout rate of zero.
func ComputeKPIs(inv []models.InventoryRecord) models.KPISummary {
	summary := models.KPISummary{TotalSKUs: len(inv), StockoutRate: decimal.Zero}

	var stockouts int64
	for _, rec := range inv {
		summary.TotalQtyOnHand += rec.QtyOnHand
		if rec.QtyOnHand == 0 {
			stockouts++
		}
	}

	if len(inv) > 0 {
		summary.StockoutRate = decimal.NewFromInt(stockouts).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(len(inv)))).
			RoundBank(1)
	}
	return summary
}

// InventoryByLine sums quantity on hand per product line, ordered by line.
func InventoryByLine(inv []models.InventoryRecord) []models.LineTotal {
	totals := make(map[string]int)
	for _, rec := range inv {
		totals[rec.ProductLine] += rec.QtyOnHand
	}

	out := make([]models.LineTotal, 0, len(totals))
	for line, qty := range totals {
		out = append(out, models.LineTotal{ProductLine: line, QtyOnHand: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductLine < out[j].ProductLine })
	return out
}

// CycleCounts augments each inventory row with the number of days its next
// scheduled count is overdue as of today. Rows not yet due are negative.
func CycleCounts(inv []models.InventoryRecord, today time.Time) []models.CycleCountRow {
	out := make([]models.CycleCountRow, 0, len(inv))
	for _, rec := range inv {
		out = append(out, models.CycleCountRow{
			SKU:                rec.SKU,
			ProductLine:        rec.ProductLine,
			LastCountDate:      rec.LastCountDate,
			NextScheduledCount: rec.NextScheduledCount,
			VariancePct:        rec.VariancePct,
			DaysOverdue:        models.DaysBetween(rec.NextScheduledCount, today),
		})
	}
	return out
}

func lineSet(lines []string) map[string]struct{} {
	set := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		set[l] = struct{}{}
	}
	return set
}
