package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/receipt-vision/internal/warranty"
)

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
	name            TEXT PRIMARY KEY,
	manufacturer    TEXT NOT NULL DEFAULT '',
	model           TEXT NOT NULL DEFAULT '',
	warranty_years  INTEGER NOT NULL DEFAULT 0,
	warranty_months INTEGER NOT NULL DEFAULT 0,
	warranty_days   INTEGER NOT NULL DEFAULT 0,
	warranty_type   TEXT NOT NULL DEFAULT 'manufacturer'
)`

// seedProducts back-fills an empty catalog so lookup works out of the box.
var seedProducts = []warranty.ProductInfo{
	{Name: "macbook pro", Manufacturer: "Apple", Period: warranty.Period{Years: 1}, WarrantyType: warranty.TypeManufacturer},
	{Name: "macbook air", Manufacturer: "Apple", Period: warranty.Period{Years: 1}, WarrantyType: warranty.TypeManufacturer},
	{Name: "iphone", Manufacturer: "Apple", Period: warranty.Period{Years: 1}, WarrantyType: warranty.TypeManufacturer},
	{Name: "ipad", Manufacturer: "Apple", Period: warranty.Period{Years: 1}, WarrantyType: warranty.TypeManufacturer},
	{Name: "galaxy s24", Manufacturer: "Samsung", Period: warranty.Period{Years: 1}, WarrantyType: warranty.TypeManufacturer},
	{Name: "thinkpad", Manufacturer: "Lenovo", Period: warranty.Period{Years: 1}, WarrantyType: warranty.TypeManufacturer},
	{Name: "kitchenaid mixer", Manufacturer: "KitchenAid", Period: warranty.Period{Years: 1}, WarrantyType: warranty.TypeManufacturer},
	{Name: "dyson v15", Manufacturer: "Dyson", Period: warranty.Period{Years: 2}, WarrantyType: warranty.TypeManufacturer},
	{Name: "dewalt drill", Manufacturer: "DeWalt", Period: warranty.Period{Years: 3}, WarrantyType: warranty.TypeLimited},
	{Name: "lg refrigerator", Manufacturer: "LG", Period: warranty.Period{Years: 2}, WarrantyType: warranty.TypeManufacturer},
}

// SQLiteProductCatalog backs warranty lookup with an embedded sqlite table of
// known products and their manufacturer terms.
type SQLiteProductCatalog struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenProductCatalog(ctx context.Context, path string, logger *slog.Logger) (*SQLiteProductCatalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening product catalog: %w", err)
	}
	if _, err := db.ExecContext(ctx, productsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring products schema: %w", err)
	}

	c := &SQLiteProductCatalog{db: db, logger: logger}
	if err := c.seedIfEmpty(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteProductCatalog) seedIfEmpty(ctx context.Context) error {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, p := range seedProducts {
		_, err := c.db.ExecContext(ctx,
			`INSERT INTO products (name, manufacturer, model, warranty_years, warranty_months, warranty_days, warranty_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Manufacturer, p.Model, p.Period.Years, p.Period.Months, p.Period.Days, p.WarrantyType,
		)
		if err != nil {
			return fmt.Errorf("seeding products: %w", err)
		}
	}
	c.logger.Info("product catalog seeded", "products", len(seedProducts))
	return nil
}

// Lookup matches the item name against the catalog: exact first, then the
// catalog name as a substring of the item name. Misses return (nil, nil).
func (c *SQLiteProductCatalog) Lookup(ctx context.Context, name string) (*warranty.ProductInfo, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	info, err := c.queryOne(ctx, `SELECT name, manufacturer, model, warranty_years, warranty_months, warranty_days, warranty_type
		FROM products WHERE name = ?`, needle)
	if err != nil || info != nil {
		return info, err
	}

	return c.queryOne(ctx, `SELECT name, manufacturer, model, warranty_years, warranty_months, warranty_days, warranty_type
		FROM products WHERE instr(?, name) > 0 ORDER BY length(name) DESC LIMIT 1`, needle)
}

func (c *SQLiteProductCatalog) queryOne(ctx context.Context, query string, args ...any) (*warranty.ProductInfo, error) {
	var p warranty.ProductInfo
	err := c.db.QueryRowContext(ctx, query, args...).Scan(
		&p.Name, &p.Manufacturer, &p.Model,
		&p.Period.Years, &p.Period.Months, &p.Period.Days, &p.WarrantyType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	return &p, nil
}

func (c *SQLiteProductCatalog) Close() error {
	return c.db.Close()
}
