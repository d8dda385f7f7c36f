// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/Josey34/multivendor-api-project/internal/domain/cart"
	"github.com/Josey34/multivendor-api-project/internal/domain/inventory"
	"github.com/Josey34/multivendor-api-project/internal/domain/order"
	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// Models returns every persisted model in dependency order
func Models() []interface{} {
	models := []interface{}{
		// User domain - Base tables
		&user.User{},
		&user.Vendor{},
		&user.Address{},

		// Product domain
		&product.Category{},
		&product.Brand{},
		&product.Product{},
		&product.ProductImage{},
		&product.ProductVariant{},
		&product.Review{},
		&product.ReviewImage{},

		// Stock ledger
		&inventory.StockMovement{},

		// Cart domain
		&cart.Cart{},
		&cart.CartItem{},
	}

	// Order domain - Dependent tables
	return append(models, order.Models()...)
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// indexes are the composite and sort indexes the struct tags do not declare
var indexes = []string{
	// Product indexes
	"CREATE INDEX IF NOT EXISTS idx_products_vendor_active ON products(vendor_id, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
	"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

	// Product image indexes
	"CREATE INDEX IF NOT EXISTS idx_product_images_product_primary ON product_images(product_id, is_primary)",

	// Review indexes
	"CREATE INDEX IF NOT EXISTS idx_reviews_product_approved ON reviews(product_id, is_approved)",

	// Order indexes
	"CREATE INDEX IF NOT EXISTS idx_orders_user_vendor ON orders(user_id, vendor_id)",
	"CREATE INDEX IF NOT EXISTS idx_orders_number_status ON orders(order_number, status)",
	"CREATE INDEX IF NOT EXISTS idx_orders_vendor_status ON orders(vendor_id, status)",
	"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

	// Payment indexes
	"CREATE INDEX IF NOT EXISTS idx_payments_order_status ON payments(order_id, status)",

	// Stock ledger indexes
	"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at DESC)",
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	m.log.Info("Creating additional database indexes")

	for _, statement := range indexes {
		if err := m.db.Exec(statement).Error; err != nil {
			return fmt.Errorf("failed to create index: %s: %w", statement, err)
		}
	}

	m.log.Info("Database indexes created")
	return nil
}

// Run migrates every model, then creates the extra indexes
func (m *Migration) Run() error {
	if err := m.RunAutoMigrations(); err != nil {
		return err
	}
	return m.CreateIndexes()
}
