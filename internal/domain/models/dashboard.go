package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Selection holds the user-chosen filters.
type Selection struct {
	Lines []string  `json:"product_lines"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// KPISummary holds the three headline metrics.
type KPISummary struct {
	TotalSKUs      int             `json:"total_skus"`
	TotalQtyOnHand int             `json:"total_qty_on_hand"`
	StockoutRate   decimal.Decimal `json:"stockout_rate"`
}

// LineTotal is one bar of the inventory-by-product-line chart.
type LineTotal struct {
	ProductLine string `json:"ProductLine" bson:"product_line"`
	QtyOnHand   int    `json:"QtyOnHand" bson:"qty_on_hand"`
}

// CycleCountRow is an inventory row augmented with its overdue days.
type CycleCountRow struct {
	SKU                string          `json:"SKU"`
	ProductLine        string          `json:"ProductLine"`
	LastCountDate      time.Time       `json:"LastCountDate"`
	NextScheduledCount time.Time       `json:"NextScheduledCount"`
	VariancePct        decimal.Decimal `json:"Variance%"`
	DaysOverdue        int             `json:"DaysOverdue"`
}

// View is everything the presentation layer needs for one render.
type View struct {
	Selection   Selection             `json:"selection"`
	KPIs        KPISummary            `json:"kpis"`
	ByLine      []LineTotal           `json:"inventory_by_product_line"`
	CycleCounts []CycleCountRow       `json:"cycle_count_tracker"`
	Purchases   []PurchaseOrderRecord `json:"purchase_activity"`
}

// Snapshot represents the archived KPIs of a scheduled dashboard build.
type Snapshot struct {
	TakenAt        time.Time   `bson:"taken_at" json:"taken_at"`
	Source         string      `bson:"source" json:"source"`
	ProductLines   []string    `bson:"product_lines" json:"product_lines"`
	Start          time.Time   `bson:"start" json:"start"`
	End            time.Time   `bson:"end" json:"end"`
	TotalSKUs      int         `bson:"total_skus" json:"total_skus"`
	TotalQtyOnHand int         `bson:"total_qty_on_hand" json:"total_qty_on_hand"`
	StockoutRate   float64     `bson:"stockout_rate" json:"stockout_rate"`
	ByLine         []LineTotal `bson:"by_line" json:"by_line"`
}
