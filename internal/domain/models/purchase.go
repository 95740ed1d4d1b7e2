package models

import "time"

// POStatus enumerates purchase order lifecycle states.
type POStatus string

const (
	StatusOpen              POStatus = "Open"
	StatusPartiallyReceived POStatus = "Partially Received"
	StatusClosed            POStatus = "Closed"
	StatusCancelled         POStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s POStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusPartiallyReceived, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// PurchaseOrderRecord captures one purchase order line.
type PurchaseOrderRecord struct {
	PO          string    `json:"PO"`
	ProductLine string    `json:"ProductLine"`
	SKU         string    `json:"SKU"`
	QtyOrdered  int       `json:"QtyOrdered"`
	QtyReceived int       `json:"QtyReceived"`
	OrderDate   time.Time `json:"OrderDate"`
	ETA         time.Time `json:"ETA"`
	Status      POStatus  `json:"Status"`
}

// Tables bundles the two record sets rendered by the dashboard.
type Tables struct {
	Inventory []InventoryRecord
	Purchases []PurchaseOrderRecord
}
