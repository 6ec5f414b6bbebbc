// Package testdb opens a migrated in-memory database for package tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/hoversale/internal/models"
)

var seq atomic.Int64

// Open returns a fresh database per test. A single connection keeps the
// in-memory database shared by every statement and transaction.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func SeedProduct(t *testing.T, db *gorm.DB, name string, price string, qty int) models.Product {
	t.Helper()

	p := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
		ImageURL: "/img/" + name + ".png",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func Stock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	var p models.Product
	if err := db.Select("quantity").First(&p, productID).Error; err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return p.Quantity
}
