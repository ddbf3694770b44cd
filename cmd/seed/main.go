package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/cache"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "seed-db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

// invalidateOverviews drops cached analytics for the touched products so a
// reseed does not serve stale overviews for the rest of the TTL. A nil ID
// list flushes everything. Cache trouble never fails the seed run.
func invalidateOverviews(ctx context.Context, productIDs []int64) {
	cfg := config.Load()
	if !cfg.Cache.Enabled {
		return
	}

	overviewCache, err := cache.NewOverviewCache(cfg.Cache)
	if err != nil {
		log.Printf("warning: cache unavailable, skipping invalidation: %v", err)
		return
	}

	if productIDs == nil {
		if err := overviewCache.InvalidateAll(ctx); err != nil {
			log.Printf("warning: failed to invalidate cached overviews: %v", err)
		}
		return
	}
	for _, id := range productIDs {
		if err := overviewCache.InvalidateProduct(ctx, id); err != nil {
			log.Printf("warning: failed to invalidate cached overviews for product %d: %v", id, err)
		}
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with product and sales history data",
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "Seed the product catalog from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "products-file",
						Usage:   "CSV file with product catalog rows",
						Value:   "./data/seeds/products.csv",
						EnvVars: []string{"SEED_PRODUCTS_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedProducts,
			},
			{
				Name:  "sales",
				Usage: "Seed sales history from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "sales-file",
						Usage:   "CSV file with sales history rows",
						Value:   "./data/seeds/sales_history.csv",
						EnvVars: []string{"SEED_SALES_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedSales,
			},
			{
				Name:   "download",
				Usage:  "Download seed CSV files from object storage",
				Flags:  downloadFlags(),
				Action: runDownload,
			},
			{
				Name:  "all",
				Usage: "Seed the product catalog, then the sales history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "products-file",
						Usage:   "CSV file with product catalog rows",
						Value:   "./data/seeds/products.csv",
						EnvVars: []string{"SEED_PRODUCTS_FILE"},
					},
					&cli.StringFlag{
						Name:    "sales-file",
						Usage:   "CSV file with sales history rows",
						Value:   "./data/seeds/sales_history.csv",
						EnvVars: []string{"SEED_SALES_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					if err := seedProducts(c); err != nil {
						return fmt.Errorf("error seeding products: %w", err)
					}
					if err := seedSales(c); err != nil {
						return fmt.Errorf("error seeding sales history: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initSchema(ctx context.Context, tx *sql.Tx) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			unit TEXT NOT NULL DEFAULT 'pcs',
			unit_cost DOUBLE PRECISION NOT NULL,
			ordering_cost DOUBLE PRECISION NOT NULL,
			holding_cost_percentage DOUBLE PRECISION NOT NULL,
			lead_time_days INTEGER NOT NULL,
			current_stock INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS sales_history (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			sale_date DATE NOT NULL,
			quantity INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sales_history_product_date
			ON sales_history (product_id, sale_date);
	`

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func seedProducts(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	filePath := c.String("products-file")
	log.Printf("Seeding products from %s\n", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := initSchema(ctx, tx); err != nil {
		return err
	}

	const query = `
		INSERT INTO products (
			code, name, category, unit, unit_cost, ordering_cost,
			holding_cost_percentage, lead_time_days, current_stock
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			unit = EXCLUDED.unit,
			unit_cost = EXCLUDED.unit_cost,
			ordering_cost = EXCLUDED.ordering_cost,
			holding_cost_percentage = EXCLUDED.holding_cost_percentage,
			lead_time_days = EXCLUDED.lead_time_days,
			current_stock = EXCLUDED.current_stock
	`

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := []string{
		"code", "name", "category", "unit", "unit_cost", "ordering_cost",
		"holding_cost_percentage", "lead_time_days", "current_stock",
	}
	indices := make([]int, len(columns))
	for i, col := range columns {
		indices[i] = getColumnIndex(header, col)
	}

	rowCount := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		unitCost, err := parseFloat(record[indices[4]])
		if err != nil {
			return fmt.Errorf("invalid unit_cost in row %d: %w", rowCount+2, err)
		}
		orderingCost, err := parseFloat(record[indices[5]])
		if err != nil {
			return fmt.Errorf("invalid ordering_cost in row %d: %w", rowCount+2, err)
		}
		holdingPct, err := parseFloat(record[indices[6]])
		if err != nil {
			return fmt.Errorf("invalid holding_cost_percentage in row %d: %w", rowCount+2, err)
		}
		leadTime, err := strconv.Atoi(strings.TrimSpace(record[indices[7]]))
		if err != nil {
			return fmt.Errorf("invalid lead_time_days in row %d: %w", rowCount+2, err)
		}
		currentStock, err := strconv.Atoi(strings.TrimSpace(record[indices[8]]))
		if err != nil {
			return fmt.Errorf("invalid current_stock in row %d: %w", rowCount+2, err)
		}

		if _, err := tx.ExecContext(ctx, query,
			strings.TrimSpace(record[indices[0]]),
			strings.TrimSpace(record[indices[1]]),
			strings.TrimSpace(record[indices[2]]),
			strings.TrimSpace(record[indices[3]]),
			unitCost,
			orderingCost,
			holdingPct,
			leadTime,
			currentStock,
		); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", record[indices[0]], err)
		}
		rowCount++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// cost parameters may have changed for any product
	invalidateOverviews(ctx, nil)

	log.Printf("Successfully seeded %d products\n", rowCount)
	return nil
}

func seedSales(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	filePath := c.String("sales-file")
	log.Printf("Seeding sales history from %s\n", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := initSchema(ctx, tx); err != nil {
		return err
	}

	productIDs, err := loadProductIDMap(ctx, tx)
	if err != nil {
		return err
	}

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	codeIdx := getColumnIndex(header, "product_code")
	dateIdx := getColumnIndex(header, "date")
	qtyIdx := getColumnIndex(header, "quantity")

	const query = `
		INSERT INTO sales_history (product_id, sale_date, quantity)
		VALUES ($1, $2, $3)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare sales statement: %w", err)
	}
	defer stmt.Close()

	touched := make(map[int64]struct{})
	rowCount := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		code := strings.TrimSpace(record[codeIdx])
		productID, ok := productIDs[code]
		if !ok {
			return fmt.Errorf("product code %s not found, seed products first", code)
		}

		saleDate, err := time.Parse("2006-01-02", strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return fmt.Errorf("invalid date in row %d: %w", rowCount+2, err)
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(record[qtyIdx]))
		if err != nil {
			return fmt.Errorf("invalid quantity in row %d: %w", rowCount+2, err)
		}

		if _, err := stmt.ExecContext(ctx, productID, saleDate, quantity); err != nil {
			return fmt.Errorf("failed to insert sale for %s: %w", code, err)
		}

		touched[productID] = struct{}{}
		rowCount++
		if rowCount%5000 == 0 {
			log.Printf("Seeded %d sales records...", rowCount)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	touchedIDs := make([]int64, 0, len(touched))
	for id := range touched {
		touchedIDs = append(touchedIDs, id)
	}
	invalidateOverviews(ctx, touchedIDs)

	log.Printf("Successfully seeded sales_history (%d records)\n", rowCount)
	return nil
}

func loadProductIDMap(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT code, id FROM products")
	if err != nil {
		return nil, fmt.Errorf("failed to load product codes: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var (
			code string
			id   int64
		)
		if err := rows.Scan(&code, &id); err != nil {
			return nil, fmt.Errorf("failed to scan product codes: %w", err)
		}
		result[code] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product codes: %w", err)
	}

	return result, nil
}

func parseFloat(value string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

func getColumnIndex(header []string, column string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			return i
		}
	}

	panic(fmt.Sprintf("column '%s' not found in header: %v", column, header))
}
