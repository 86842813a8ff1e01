package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/models"
)

// OrderFilter is a conjunction of optional predicates. A nil/empty field
// means "no constraint" and its clause is not emitted at all.
type OrderFilter struct {
	Search         string
	PaymentStatus  *models.PaymentStatus
	DeliveryStatus *models.DeliveryStatus
	StartDate      *time.Time
	EndDate        *time.Time
}

// snapshotSelect joins an order with its customer and resolved item name.
const snapshotSelect = `
	SELECT o.id AS order_id,
	       o.customer_id,
	       c.name AS customer_name,
	       c.phone AS customer_phone,
	       COALESCE(c.email, '') AS customer_email,
	       c.address AS customer_address,
	       CASE WHEN o.product_id IS NOT NULL THEN 'product' ELSE 'course' END AS item_kind,
	       COALESCE(p.name, cs.name) AS item_name,
	       o.quantity,
	       o.unit_price,
	       o.total_price,
	       o.payment_status,
	       o.delivery_status,
	       o.order_date,
	       COALESCE(o.remarks, '') AS remarks
	FROM orders o
	JOIN customers c ON o.customer_id = c.id
	LEFT JOIN products p ON o.product_id = p.id
	LEFT JOIN courses cs ON o.course_id = cs.id`

// buildOrderFilter compiles a filter into WHERE clauses and args. Absent
// predicates produce no clause, so the planner never touches their columns.
// Column names are qualified against the snapshot join aliases.
func buildOrderFilter(f OrderFilter, argOffset int) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	n := argOffset

	if f.Search != "" {
		n++
		clauses = append(clauses, fmt.Sprintf(
			"(c.name ILIKE $%d OR c.phone ILIKE $%d OR c.email ILIKE $%d)", n, n, n))
		args = append(args, "%"+f.Search+"%")
	}
	if f.PaymentStatus != nil {
		n++
		clauses = append(clauses, fmt.Sprintf("o.payment_status = $%d", n))
		args = append(args, *f.PaymentStatus)
	}
	if f.DeliveryStatus != nil {
		n++
		clauses = append(clauses, fmt.Sprintf("o.delivery_status = $%d", n))
		args = append(args, *f.DeliveryStatus)
	}
	if f.StartDate != nil {
		n++
		clauses = append(clauses, fmt.Sprintf("o.order_date::date >= $%d", n))
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		n++
		clauses = append(clauses, fmt.Sprintf("o.order_date::date <= $%d", n))
		args = append(args, *f.EndDate)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// CreateOrder inserts the customer and order in one transaction and fills
// in the generated ids and order date. Unit and total price are the caller's
// captured values; they are never derived again from the catalog.
func (s *Store) CreateOrder(ctx context.Context, customer *models.Customer, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, customer, `
		INSERT INTO customers (name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		customer.Name, customer.Phone, customer.Email, customer.Address)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	order.CustomerID = customer.ID
	err = tx.GetContext(ctx, order, `
		INSERT INTO orders (customer_id, product_id, course_id, quantity, unit_price,
		                    total_price, payment_status, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, order_date, updated_at`,
		order.CustomerID, order.ProductID, order.CourseID, order.Quantity,
		order.UnitPrice, order.TotalPrice, order.PaymentStatus, order.DeliveryStatus)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, `
		SELECT id, customer_id, product_id, course_id, quantity, unit_price,
		       total_price, payment_status, delivery_status, order_date,
		       COALESCE(remarks, '') AS remarks, updated_at
		FROM orders WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// GetOrderSnapshot retrieves the denormalized read model for one order
func (s *Store) GetOrderSnapshot(ctx context.Context, id int64) (*models.OrderSnapshot, error) {
	var snap models.OrderSnapshot
	err := s.db.GetContext(ctx, &snap, snapshotSelect+" WHERE o.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order snapshot: %w", err)
	}
	return &snap, nil
}

// ListOrderSnapshots retrieves filtered snapshots, newest first
func (s *Store) ListOrderSnapshots(ctx context.Context, filter OrderFilter) ([]models.OrderSnapshot, error) {
	where, args := buildOrderFilter(filter, 0)
	query := snapshotSelect + where + " ORDER BY o.order_date DESC"

	snaps := []models.OrderSnapshot{}
	if err := s.db.SelectContext(ctx, &snaps, query, args...); err != nil {
		return nil, fmt.Errorf("list order snapshots: %w", err)
	}
	return snaps, nil
}

// ListRecentOrderSnapshots retrieves the newest n snapshots
func (s *Store) ListRecentOrderSnapshots(ctx context.Context, limit int) ([]models.OrderSnapshot, error) {
	snaps := []models.OrderSnapshot{}
	query := snapshotSelect + " ORDER BY o.order_date DESC LIMIT $1"
	if err := s.db.SelectContext(ctx, &snaps, query, limit); err != nil {
		return nil, fmt.Errorf("list recent order snapshots: %w", err)
	}
	return snaps, nil
}

// ListCustomerOrders retrieves all snapshots for one customer, newest first
func (s *Store) ListCustomerOrders(ctx context.Context, customerID int64) ([]models.OrderSnapshot, error) {
	snaps := []models.OrderSnapshot{}
	query := snapshotSelect + " WHERE o.customer_id = $1 ORDER BY o.order_date DESC"
	if err := s.db.SelectContext(ctx, &snaps, query, customerID); err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	return snaps, nil
}

// ListOrdersBetween retrieves raw order rows in an inclusive date range.
// The reporting engine aggregates over this snapshot in memory.
func (s *Store) ListOrdersBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT id, customer_id, product_id, course_id, quantity, unit_price,
		       total_price, payment_status, delivery_status, order_date,
		       COALESCE(remarks, '') AS remarks, updated_at
		FROM orders
		WHERE order_date::date >= $1 AND order_date::date <= $2
		ORDER BY order_date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list orders between: %w", err)
	}
	return orders, nil
}

// UpdateOrderPaymentStatus applies a conditional payment status write.
// Returns false when the row's current status no longer matches from,
// which means a concurrent transition won the race.
func (s *Store) UpdateOrderPaymentStatus(ctx context.Context, id int64, from, to models.PaymentStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2 AND payment_status = $3",
		to, id, from)
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// UpdateOrderDeliveryStatus applies a conditional delivery status write.
func (s *Store) UpdateOrderDeliveryStatus(ctx context.Context, id int64, from, to models.DeliveryStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET delivery_status = $1, updated_at = NOW() WHERE id = $2 AND delivery_status = $3",
		to, id, from)
	if err != nil {
		return false, fmt.Errorf("update delivery status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// UpdateOrderRemarks replaces the admin remarks on an order
func (s *Store) UpdateOrderRemarks(ctx context.Context, id int64, remarks string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET remarks = $1, updated_at = NOW() WHERE id = $2",
		remarks, id)
	if err != nil {
		return fmt.Errorf("update remarks: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteOrder permanently removes an order
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	return nil
}
