package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

const (
	DefaultProducts       = 50
	DefaultPurchaseOrders = 100
	DefaultSeed           = 42

	countLookbackDays = 180
	orderLookbackDays = 120
	maxEtaDays        = 30
	firstPONumber     = 1000
)

type weightedStatus struct {
	status models.POStatus
	weight float64
}

var statusWeights = []weightedStatus{
	{models.StatusOpen, 0.4},
	{models.StatusPartiallyReceived, 0.2},
	{models.StatusClosed, 0.35},
	{models.StatusCancelled, 0.05},
}

// Options controls the size and seed of generated tables.
type Options struct {
	Products       int
	PurchaseOrders int
	Seed           int64
}

// DefaultOptions mirrors the stock sample dashboard.
func DefaultOptions() Options {
	return Options{Products: DefaultProducts, PurchaseOrders: DefaultPurchaseOrders, Seed: DefaultSeed}
}

// Generator produces synthetic inventory and purchasing tables.
type Generator struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// New wires a sample data generator.
func New(opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Products <= 0 {
		opts.Products = DefaultProducts
	}
	if opts.PurchaseOrders <= 0 {
		opts.PurchaseOrders = DefaultPurchaseOrders
	}
	return &Generator{opts: opts, logger: logger, now: time.Now}
}

// WithClock returns a copy of g that reads "today" from now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	clone := *g
	clone.now = now
	return &clone
}

// Generate builds both tables from a fresh random source seeded with the
// configured seed, so two calls on the same day return identical data.
func (g *Generator) Generate() models.Tables {
	rng := rand.New(rand.NewSource(g.opts.Seed))
	today := models.Day(g.now())

	skus := make([]string, g.opts.Products)
	for i := range skus {
		skus[i] = fmt.Sprintf("SKU-%03d", i+1)
	}

	tables := models.Tables{
		Inventory: g.inventory(rng, today, skus),
		Purchases: g.purchases(rng, today, skus),
	}

	g.logger.Debug("sample tables generated",
		zap.Int("inventory_rows", len(tables.Inventory)),
		zap.Int("purchase_rows", len(tables.Purchases)),
		zap.Int64("seed", g.opts.Seed))
	return tables
}

// Inventory generates only the inventory table.
func (g *Generator) Inventory() []models.InventoryRecord {
	return g.Generate().Inventory
}

// Purchases generates only the purchases table.
func (g *Generator) Purchases() []models.PurchaseOrderRecord {
	return g.Generate().Purchases
}

func (g *Generator) inventory(rng *rand.Rand, today time.Time, skus []string) []models.InventoryRecord {
	records := make([]models.InventoryRecord, 0, len(skus))
	for _, sku := range skus {
		line := models.ProductLines[rng.Intn(len(models.ProductLines))]
		onHand := rng.Intn(100)
		reorderPoint := 10 + rng.Intn(40)
		lastCount := today.AddDate(0, 0, -rng.Intn(countLookbackDays))
		variance := decimal.NewFromFloat(-20 + rng.Float64()*60)

		records = append(records, models.NewInventoryRecord(sku, line, onHand, reorderPoint, lastCount, variance))
	}
	return records
}

func (g *Generator) purchases(rng *rand.Rand, today time.Time, skus []string) []models.PurchaseOrderRecord {
	records := make([]models.PurchaseOrderRecord, 0, g.opts.PurchaseOrders)
	for i := 0; i < g.opts.PurchaseOrders; i++ {
		orderDate := today.AddDate(0, 0, -rng.Intn(orderLookbackDays))
		ordered := 1 + rng.Intn(499)

		var sku string
		if len(skus) > 0 {
			sku = skus[rng.Intn(len(skus))]
		}

		records = append(records, models.PurchaseOrderRecord{
			PO:          fmt.Sprintf("PO-%d", firstPONumber+i),
			ProductLine: models.ProductLines[rng.Intn(len(models.ProductLines))],
			SKU:         sku,
			QtyOrdered:  ordered,
			QtyReceived: rng.Intn(ordered + 1),
			OrderDate:   orderDate,
			ETA:         orderDate.AddDate(0, 0, 1+rng.Intn(maxEtaDays-1)),
			Status:      pickStatus(rng),
		})
	}
	return records
}

func pickStatus(rng *rand.Rand) models.POStatus {
	roll := rng.Float64()
	var cumulative float64
	for _, ws := range statusWeights {
		cumulative += ws.weight
		if roll < cumulative {
			return ws.status
		}
	}
	return statusWeights[len(statusWeights)-1].status
}
