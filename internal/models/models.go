package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind discriminates the two purchasable catalog item types.
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindCourse  ItemKind = "course"
)

// ParseItemKind validates a kind string at the boundary.
func ParseItemKind(s string) (ItemKind, bool) {
	switch ItemKind(s) {
	case ItemKindProduct, ItemKindCourse:
		return ItemKind(s), true
	}
	return "", false
}

// Customer represents a customer record
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email,omitempty"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CustomerSummary is a customer row with order aggregates for admin listings
type CustomerSummary struct {
	Customer
	OrderCount int64           `db:"order_count" json:"order_count"`
	TotalSpent decimal.Decimal `db:"total_spent" json:"total_spent"`
}

// CatalogItem represents a purchasable product or course.
// Availability holds stock count for products, seat count for courses.
type CatalogItem struct {
	ID           int64           `db:"id" json:"id"`
	Kind         ItemKind        `db:"kind" json:"kind"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	UnitPrice    decimal.Decimal `db:"price" json:"price"`
	Availability int             `db:"availability" json:"availability"`
	IsFeatured   bool            `db:"is_featured" json:"is_featured"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Order represents a customer order.
// Exactly one of ProductID/CourseID is set. TotalPrice is captured at
// creation time and never recomputed from current catalog prices.
type Order struct {
	ID             int64           `db:"id" json:"id"`
	CustomerID     int64           `db:"customer_id" json:"customer_id"`
	ProductID      *int64          `db:"product_id" json:"product_id,omitempty"`
	CourseID       *int64          `db:"course_id" json:"course_id,omitempty"`
	Quantity       int             `db:"quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice     decimal.Decimal `db:"total_price" json:"total_price"`
	PaymentStatus  PaymentStatus   `db:"payment_status" json:"payment_status"`
	DeliveryStatus DeliveryStatus  `db:"delivery_status" json:"delivery_status"`
	OrderDate      time.Time       `db:"order_date" json:"order_date"`
	Remarks        string          `db:"remarks" json:"remarks,omitempty"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// ItemKind returns the kind of the referenced catalog item.
func (o *Order) ItemKind() ItemKind {
	if o.ProductID != nil {
		return ItemKindProduct
	}
	return ItemKindCourse
}

// OrderSnapshot is the denormalized read model joining an order with its
// customer and the resolved catalog item name. It is assembled in a single
// repository query; consumers (notifications, reports, exports) never
// re-query storage.
type OrderSnapshot struct {
	OrderID         int64           `db:"order_id" json:"order_id"`
	CustomerID      int64           `db:"customer_id" json:"customer_id"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email,omitempty"`
	CustomerAddress string          `db:"customer_address" json:"customer_address"`
	ItemKind        ItemKind        `db:"item_kind" json:"item_kind"`
	ItemName        string          `db:"item_name" json:"item_name"`
	Quantity        int             `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice      decimal.Decimal `db:"total_price" json:"total_price"`
	PaymentStatus   PaymentStatus   `db:"payment_status" json:"payment_status"`
	DeliveryStatus  DeliveryStatus  `db:"delivery_status" json:"delivery_status"`
	OrderDate       time.Time       `db:"order_date" json:"order_date"`
	Remarks         string          `db:"remarks" json:"remarks,omitempty"`
}

// BackupLog records one backup or restore attempt. Append-only.
type BackupLog struct {
	ID         int64     `db:"id" json:"id"`
	BackupType string    `db:"backup_type" json:"backup_type"`
	FilePath   string    `db:"file_path" json:"file_path"`
	Status     string    `db:"status" json:"status"`
	BackupDate time.Time `db:"backup_date" json:"backup_date"`
}

// Backup statuses
const (
	BackupStatusSuccess = "success"
	BackupStatusFailed  = "failed"
)

// ProcessedEvent for notification idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
