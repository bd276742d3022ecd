package models

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

Set GENERATE_COLUMN_REPORT=true and start the server. For every catalogue table the
report lists the database columns that have no matching field in the Go model, e.g.

	--- Table: inventory_fields ---
	Found 1 columns not accounted for in model:
	  - legacy_label

Set GENERATE_MODELS=true to migrate and regenerate the typed query helpers under
./generated instead.
*/

// modelTables maps table names to the models that own them
var modelTables = map[string]interface{}{
	"categories":       Category{},
	"tags":             Tag{},
	"inventories":      Inventory{},
	"inventory_tags":   InventoryTag{},
	"inventory_fields": Field{},
	"items":            Item{},
	"item_fields":      ItemValue{},
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	fmt.Println("Migrating models...")
	if err := AutoMigrate(db); err != nil {
		return err
	}

	GenerateColumnMismatchReport(db)

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(
		Category{},
		Tag{},
		Inventory{},
		InventoryTag{},
		Field{},
		Item{},
		ItemValue{},
	)
	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport prints the database columns that no model field maps to
func GenerateColumnMismatchReport(db *gorm.DB) int {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for tableName, model := range modelTables {
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		dbColumns, err := db.Migrator().ColumnTypes(tableName)
		if err != nil {
			fmt.Printf("Error getting columns for table %s: %v\n", tableName, err)
			continue
		}
		names := make([]string, 0, len(dbColumns))
		for _, col := range dbColumns {
			names = append(names, col.Name())
		}

		mismatches := findColumnMismatches(names, modelColumns(db, model))
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches
}

// modelColumns returns the column names gorm derives for a model's plain fields
func modelColumns(db *gorm.DB, model interface{}) []string {
	var columns []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		kind := field.Type.Kind()
		if kind == reflect.Ptr {
			kind = field.Type.Elem().Kind()
		}
		// associations
		if kind == reflect.Slice || (kind == reflect.Struct && field.Type.String() != "time.Time") {
			continue
		}
		if name := columnFromGormTag(field.Tag.Get("gorm")); name != "" {
			columns = append(columns, name)
			continue
		}
		columns = append(columns, db.NamingStrategy.ColumnName("", field.Name))
	}
	return columns
}

func columnFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
