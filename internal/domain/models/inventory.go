package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CycleCountDays is the gap in days between two physical counts of the same SKU.
const CycleCountDays = 90

// DateLayout is the wire format of every calendar date in the dashboard.
const DateLayout = "2006-01-02"

// ProductLines lists the product lines used by the sample generator.
var ProductLines = []string{"Engine", "Electrical", "Brake", "Suspension", "Body", "Interior"}

// InventoryRecord captures the stock position of a single SKU.
type InventoryRecord struct {
	SKU                string          `json:"SKU"`
	ProductLine        string          `json:"ProductLine"`
	QtyOnHand          int             `json:"QtyOnHand"`
	ReorderPoint       int             `json:"ReorderPoint"`
	LastCountDate      time.Time       `json:"LastCountDate"`
	NextScheduledCount time.Time       `json:"NextScheduledCount"`
	VariancePct        decimal.Decimal `json:"Variance%"`
}

// NewInventoryRecord builds a record whose next count is derived from the last one.
func NewInventoryRecord(sku, line string, onHand, reorderPoint int, lastCount time.Time, variance decimal.Decimal) InventoryRecord {
	last := Day(lastCount)
	return InventoryRecord{
		SKU:                sku,
		ProductLine:        line,
		QtyOnHand:          onHand,
		ReorderPoint:       reorderPoint,
		LastCountDate:      last,
		NextScheduledCount: NextCountDate(last),
		VariancePct:        variance.RoundBank(1),
	}
}

// NextCountDate returns the scheduled recount date for a count performed on last.
func NextCountDate(last time.Time) time.Time {
	return Day(last).AddDate(0, 0, CycleCountDays)
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	const secondsPerDay = 24 * 60 * 60
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}
