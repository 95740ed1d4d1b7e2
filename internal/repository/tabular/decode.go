package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

// Column names shared by uploads, spreadsheets and exports.
const (
	ColSKU                = "SKU"
	ColProductLine        = "ProductLine"
	ColQtyOnHand          = "QtyOnHand"
	ColReorderPoint       = "ReorderPoint"
	ColLastCountDate      = "LastCountDate"
	ColNextScheduledCount = "NextScheduledCount"
	ColVariancePct        = "Variance%"
	ColDaysOverdue        = "DaysOverdue"

	ColPO          = "PO"
	ColQtyOrdered  = "QtyOrdered"
	ColQtyReceived = "QtyReceived"
	ColOrderDate   = "OrderDate"
	ColETA         = "ETA"
	ColStatus      = "Status"
)

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"1/2/2006 15:04:05",
}

// Excel serial numbers from 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// DecodeInventory converts a table into inventory records. ReorderPoint and
// Variance% default to zero when absent. NextScheduledCount is always derived
// from LastCountDate, so an uploaded column of that name is ignored.
func DecodeInventory(t Table) ([]models.InventoryRecord, error) {
	if err := t.Require(ColSKU, ColProductLine, ColQtyOnHand, ColLastCountDate); err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	records := make([]models.InventoryRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		c := cursor{row: row, line: i + 2, serial: t.SerialDates}

		sku := c.text(ColSKU)
		line := c.text(ColProductLine)
		onHand := c.integer(ColQtyOnHand)
		lastCount := c.date(ColLastCountDate)

		var reorderPoint int
		if t.Has(ColReorderPoint) && !c.empty(ColReorderPoint) {
			reorderPoint = c.integer(ColReorderPoint)
		}
		variance := decimal.Zero
		if t.Has(ColVariancePct) && !c.empty(ColVariancePct) {
			variance = c.decimal(ColVariancePct)
		}
		if c.err != nil {
			return nil, fmt.Errorf("inventory: %w", c.err)
		}
		if onHand < 0 || reorderPoint < 0 {
			return nil, fmt.Errorf("inventory: %w: line %d: negative quantity", ErrMalformed, c.line)
		}

		records = append(records, models.NewInventoryRecord(sku, line, onHand, reorderPoint, lastCount, variance))
	}
	return records, nil
}

// DecodePurchases converts a table into purchase order records.
func DecodePurchases(t Table) ([]models.PurchaseOrderRecord, error) {
	if err := t.Require(ColPO, ColProductLine, ColSKU, ColQtyOrdered, ColQtyReceived, ColOrderDate, ColETA, ColStatus); err != nil {
		return nil, fmt.Errorf("purchases: %w", err)
	}

	records := make([]models.PurchaseOrderRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		c := cursor{row: row, line: i + 2, serial: t.SerialDates}

		rec := models.PurchaseOrderRecord{
			PO:          c.text(ColPO),
			ProductLine: c.text(ColProductLine),
			SKU:         c.text(ColSKU),
			QtyOrdered:  c.integer(ColQtyOrdered),
			QtyReceived: c.integer(ColQtyReceived),
			OrderDate:   models.Day(c.date(ColOrderDate)),
			ETA:         models.Day(c.date(ColETA)),
			Status:      models.POStatus(c.text(ColStatus)),
		}
		if c.err != nil {
			return nil, fmt.Errorf("purchases: %w", c.err)
		}

		switch {
		case rec.QtyOrdered <= 0:
			return nil, fmt.Errorf("purchases: %w: line %d: QtyOrdered must be positive", ErrMalformed, c.line)
		case rec.QtyReceived < 0 || rec.QtyReceived > rec.QtyOrdered:
			return nil, fmt.Errorf("purchases: %w: line %d: QtyReceived outside [0, QtyOrdered]", ErrMalformed, c.line)
		case !rec.Status.Valid():
			return nil, fmt.Errorf("purchases: %w: line %d: unknown status %q", ErrMalformed, c.line, rec.Status)
		}
		records = append(records, rec)
	}
	return records, nil
}

// cursor reads typed cells from one row and keeps the first failure.
// serial allows bare numbers in date columns as spreadsheet serial dates.
type cursor struct {
	row    Row
	line   int
	serial bool
	err    error
}

func (c *cursor) fail(column string, value interface{}, err error) {
	if c.err == nil {
		c.err = fmt.Errorf("%w: line %d column %s value %q: %v", ErrMalformed, c.line, column, fmt.Sprint(value), err)
	}
}

func (c *cursor) empty(column string) bool {
	v := c.row[column]
	return v == nil || strings.TrimSpace(fmt.Sprint(v)) == ""
}

func (c *cursor) text(column string) string {
	if c.empty(column) {
		c.fail(column, "", fmt.Errorf("empty value"))
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(c.row[column]))
}

func (c *cursor) integer(column string) int {
	v, err := parseInt(c.row[column])
	if err != nil {
		c.fail(column, c.row[column], err)
	}
	return v
}

func (c *cursor) decimal(column string) decimal.Decimal {
	v, err := parseDecimal(c.row[column])
	if err != nil {
		c.fail(column, c.row[column], err)
	}
	return v
}

func (c *cursor) date(column string) time.Time {
	v, err := parseDate(c.row[column], c.serial)
	if err != nil {
		c.fail(column, c.row[column], err)
	}
	return v
}

func parseInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return wholeNumber(v)
	case float32:
		return wholeNumber(float64(v))
	}

	str := strings.TrimSpace(fmt.Sprint(value))
	if value == nil || str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	if n, err := strconv.Atoi(str); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return wholeNumber(f)
}

func wholeNumber(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("not a whole number")
	}
	if f < math.MinInt || f >= -math.MinInt {
		return 0, fmt.Errorf("out of range")
	}
	return int(f), nil
}

func parseDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	}

	str := strings.TrimSuffix(strings.TrimSpace(fmt.Sprint(value)), "%")
	if value == nil || str == "" {
		return decimal.Zero, fmt.Errorf("empty numeric value")
	}
	return decimal.NewFromString(str)
}

// parseDate reads a calendar date. Typed numbers come from spreadsheet cells
// and are serial dates. Numeric strings are serial dates only when serial is
// set, so a CSV value such as 20260105 is rejected rather than misread.
func parseDate(value interface{}, serial bool) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return models.Day(v), nil
	case float64:
		return excelSerial(v)
	case int64:
		return excelSerial(float64(v))
	}

	str := strings.TrimSpace(fmt.Sprint(value))
	if value == nil || str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return models.Day(t), nil
		}
	}
	if serial {
		if n, err := strconv.ParseFloat(str, 64); err == nil {
			return excelSerial(n)
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date")
}

func excelSerial(serial float64) (time.Time, error) {
	if serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, fmt.Errorf("serial date %v out of range", serial)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return models.Day(t), nil
}
