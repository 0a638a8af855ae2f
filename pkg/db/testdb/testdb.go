// Package testdb provides an in-memory SQLite database mirroring the
// production schema, for store-level and handler-level tests.
package testdb

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// schema mirrors pkg/migrate/migrations for the engine-portable parts:
// quoted camelCase identifiers, the partial unique index guarding active
// rentals, and the derived itemStatus view.
var schema = []string{
	`CREATE TABLE "organization" (
		"organizationID" INTEGER PRIMARY KEY,
		"name" TEXT NOT NULL,
		"maxItems" INTEGER
	)`,
	`CREATE TABLE "user" (
		"userID" INTEGER PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"name" TEXT NOT NULL,
		"email" TEXT
	)`,
	`CREATE TABLE "brand" (
		"brandID" INTEGER PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"name" TEXT NOT NULL
	)`,
	`CREATE TABLE "model" (
		"modelID" INTEGER PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"brandID" INTEGER REFERENCES "brand" ("brandID"),
		"name" TEXT NOT NULL
	)`,
	`CREATE TABLE "category" (
		"categoryID" INTEGER PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"name" TEXT NOT NULL
	)`,
	`CREATE TABLE "item" (
		"barcode" TEXT PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"modelID" INTEGER REFERENCES "model" ("modelID"),
		"categoryID" INTEGER REFERENCES "category" ("categoryID"),
		"notes" TEXT
	)`,
	`CREATE TABLE "externalRenter" (
		"externalRenterID" INTEGER PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"name" TEXT NOT NULL,
		"email" TEXT,
		"phone" TEXT
	)`,
	`CREATE TABLE "rental" (
		"rentalID" INTEGER PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"barcode" TEXT NOT NULL REFERENCES "item" ("barcode"),
		"userID" INTEGER REFERENCES "user" ("userID"),
		"externalRenterID" INTEGER REFERENCES "externalRenter" ("externalRenterID"),
		"startDate" TEXT,
		"endDate" TEXT,
		"returnDate" TEXT,
		"notes" TEXT
	)`,
	`CREATE UNIQUE INDEX "rentalActiveBarcode" ON "rental" ("barcode") WHERE "returnDate" IS NULL`,
	`CREATE TABLE "customField" (
		"customFieldID" INTEGER PRIMARY KEY,
		"organizationID" INTEGER NOT NULL REFERENCES "organization" ("organizationID"),
		"name" TEXT NOT NULL
	)`,
	`CREATE TABLE "customFieldCategory" (
		"customFieldID" INTEGER NOT NULL REFERENCES "customField" ("customFieldID"),
		"categoryID" INTEGER NOT NULL REFERENCES "category" ("categoryID"),
		PRIMARY KEY ("customFieldID", "categoryID")
	)`,
	`CREATE TABLE "itemCustomField" (
		"barcode" TEXT NOT NULL REFERENCES "item" ("barcode"),
		"customFieldID" INTEGER NOT NULL REFERENCES "customField" ("customFieldID"),
		"value" TEXT,
		PRIMARY KEY ("barcode", "customFieldID")
	)`,
	`CREATE VIEW "itemStatus" AS
		SELECT "item"."barcode",
		       "item"."organizationID",
		       CASE WHEN EXISTS (
		           SELECT 1 FROM "rental"
		           WHERE "rental"."barcode" = "item"."barcode"
		             AND "rental"."returnDate" IS NULL
		       ) THEN 0 ELSE 1 END AS "available"
		FROM "item"`,
}

// Open creates a fresh in-memory SQLite database with the schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("getting sql db handle: %v", err)
	}
	// Shared-cache in-memory databases vanish when the last connection
	// closes; a single pooled connection keeps them alive for the test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("creating test schema: %v", err)
		}
	}

	return conn
}
