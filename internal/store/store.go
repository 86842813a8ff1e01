package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"backoffice/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// catalogTable maps an item kind to its backing table.
func catalogTable(kind models.ItemKind) string {
	if kind == models.ItemKindCourse {
		return "courses"
	}
	return "products"
}

// availabilityColumn maps an item kind to its availability column
// (stock for products, seats for courses).
func availabilityColumn(kind models.ItemKind) string {
	if kind == models.ItemKindCourse {
		return "seats"
	}
	return "stock"
}

// GetCatalogItem retrieves a product or course by kind and id
func (s *Store) GetCatalogItem(ctx context.Context, kind models.ItemKind, id int64) (*models.CatalogItem, error) {
	query := fmt.Sprintf(`
		SELECT id, '%s' AS kind, name, COALESCE(description, '') AS description,
		       price, %s AS availability, is_featured, created_at
		FROM %s WHERE id = $1`,
		kind, availabilityColumn(kind), catalogTable(kind))

	var item models.CatalogItem
	err := s.db.GetContext(ctx, &item, query, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s %d: %w", kind, id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return &item, nil
}

// ListCatalogItems retrieves all items of a kind, optionally featured only
func (s *Store) ListCatalogItems(ctx context.Context, kind models.ItemKind, featuredOnly bool) ([]models.CatalogItem, error) {
	query := fmt.Sprintf(`
		SELECT id, '%s' AS kind, name, COALESCE(description, '') AS description,
		       price, %s AS availability, is_featured, created_at
		FROM %s`,
		kind, availabilityColumn(kind), catalogTable(kind))
	if featuredOnly {
		query += " WHERE is_featured = TRUE ORDER BY created_at DESC"
	} else {
		query += " ORDER BY name"
	}

	items := []models.CatalogItem{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	return items, nil
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer,
		"SELECT id, name, phone, COALESCE(email, '') AS email, address, created_at FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &customer, nil
}

// ListCustomers retrieves customers with order aggregates, optionally
// filtered by a case-insensitive substring match on name/phone/email.
func (s *Store) ListCustomers(ctx context.Context, search string) ([]models.CustomerSummary, error) {
	query := `
		SELECT c.id, c.name, c.phone, COALESCE(c.email, '') AS email, c.address, c.created_at,
		       COUNT(o.id) AS order_count,
		       COALESCE(SUM(CASE WHEN o.payment_status = 'Paid' THEN o.total_price ELSE 0 END), 0) AS total_spent
		FROM customers c
		LEFT JOIN orders o ON c.id = o.customer_id`
	args := []interface{}{}
	if search != "" {
		query += " WHERE c.name ILIKE $1 OR c.phone ILIKE $1 OR c.email ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " GROUP BY c.id ORDER BY c.created_at DESC"

	customers := []models.CustomerSummary{}
	if err := s.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer updates a customer's contact details
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE customers SET name = $1, phone = $2, email = $3, address = $4 WHERE id = $5",
		customer.Name, customer.Phone, customer.Email, customer.Address, customer.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("customer %d: %w", customer.ID, models.ErrNotFound)
	}
	return nil
}

// InsertBackupLog records one backup or restore attempt
func (s *Store) InsertBackupLog(ctx context.Context, log *models.BackupLog) error {
	query := `
		INSERT INTO backup_logs (backup_type, file_path, status)
		VALUES ($1, $2, $3)
		RETURNING id, backup_date`

	return s.db.GetContext(ctx, log, query, log.BackupType, log.FilePath, log.Status)
}

// ListBackupLogs retrieves the most recent backup log entries
func (s *Store) ListBackupLogs(ctx context.Context, limit int) ([]models.BackupLog, error) {
	logs := []models.BackupLog{}
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM backup_logs ORDER BY backup_date DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("list backup logs: %w", err)
	}
	return logs, nil
}

// IsEventProcessed checks if a notification event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks a notification event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
