package tabular

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

// WriteCycleCountsCSV writes the cycle-count tracker with the upload column names.
func WriteCycleCountsCSV(w io.Writer, rows []models.CycleCountRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColSKU, ColProductLine, ColLastCountDate, ColNextScheduledCount, ColVariancePct, ColDaysOverdue}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			row.SKU,
			row.ProductLine,
			row.LastCountDate.Format(models.DateLayout),
			row.NextScheduledCount.Format(models.DateLayout),
			row.VariancePct.StringFixed(1),
			strconv.Itoa(row.DaysOverdue),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePurchasesCSV writes purchase orders in the same layout DecodePurchases reads.
func WritePurchasesCSV(w io.Writer, rows []models.PurchaseOrderRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColPO, ColProductLine, ColSKU, ColQtyOrdered, ColQtyReceived, ColOrderDate, ColETA, ColStatus}); err != nil {
		return err
	}
	for _, po := range rows {
		if err := cw.Write([]string{
			po.PO,
			po.ProductLine,
			po.SKU,
			strconv.Itoa(po.QtyOrdered),
			strconv.Itoa(po.QtyReceived),
			po.OrderDate.Format(models.DateLayout),
			po.ETA.Format(models.DateLayout),
			string(po.Status),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
