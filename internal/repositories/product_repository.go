package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"abarrotes-backend/internal/importer"
	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/pricing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = "key, name, normalized_name, cost, units_per_box, markup, unit_cost, price_raw, price, margin, extra_fields, updated_at"

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	var extra []byte
	err := row.Scan(&p.Key, &p.Name, &p.NormalizedName, &p.Cost, &p.UnitsPerBox, &p.Markup,
		&p.UnitCost, &p.PriceRaw, &p.Price, &p.Margin, &extra, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(extra) > 0 {
		_ = json.Unmarshal(extra, &p.ExtraFields)
	}
	return &p, nil
}

func (r *ProductRepository) Get(ctx context.Context, key string) (*models.Product, error) {
	return scanProduct(r.DB.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE key = $1", key))
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := r.DB.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY key LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Search returns candidates whose normalized name contains the
// normalized query, in store order (ordered by key).
func (r *ProductRepository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	normalized := pricing.Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE normalized_name LIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY key
		LIMIT $2
	`, escapeLike(normalized), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// escapeLike quotes LIKE metacharacters so a query containing % or _
// matches those characters literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ProductRepository) Upsert(ctx context.Context, p *models.Product) error {
	extra, err := json.Marshal(p.ExtraFields)
	if err != nil {
		return fmt.Errorf("failed to encode extra fields: %w", err)
	}
	if p.ExtraFields == nil {
		extra = []byte("{}")
	}

	query := `
		INSERT INTO products (key, name, normalized_name, cost, units_per_box, markup, unit_cost, price_raw, price, margin, extra_fields, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			normalized_name = EXCLUDED.normalized_name,
			cost = EXCLUDED.cost,
			units_per_box = EXCLUDED.units_per_box,
			markup = EXCLUDED.markup,
			unit_cost = EXCLUDED.unit_cost,
			price_raw = EXCLUDED.price_raw,
			price = EXCLUDED.price,
			margin = EXCLUDED.margin,
			extra_fields = EXCLUDED.extra_fields,
			updated_at = NOW()
	`
	if _, err := r.DB.Exec(ctx, query,
		p.Key, p.Name, pricing.Normalize(p.Name), p.Cost, p.UnitsPerBox, p.Markup,
		p.UnitCost, p.PriceRaw, p.Price, p.Margin, extra); err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, key string) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM products WHERE key = $1", key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// WriteBatch upserts one importer batch in a single pgx batch round
// trip, satisfying importer.BatchWriter.
func (r *ProductRepository) WriteBatch(ctx context.Context, records []importer.Record) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		name, extra := splitImportFields(rec)
		extraJSON, err := json.Marshal(extra)
		if err != nil {
			return fmt.Errorf("record %s: encode fields: %w", rec.ID, err)
		}

		batch.Queue(`
			INSERT INTO products (key, name, normalized_name, extra_fields, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (key) DO UPDATE SET
				name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE products.name END,
				normalized_name = CASE WHEN EXCLUDED.normalized_name <> '' THEN EXCLUDED.normalized_name ELSE products.normalized_name END,
				extra_fields = products.extra_fields || EXCLUDED.extra_fields,
				updated_at = NOW()
		`, rec.ID, name, pricing.Normalize(name), extraJSON)
	}

	results := r.DB.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch write failed: %w", err)
		}
	}
	return nil
}

// splitImportFields pulls a display name out of an import record and
// returns the remaining dynamic columns as plain scalars.
func splitImportFields(rec importer.Record) (string, map[string]any) {
	var name string
	extra := make(map[string]any, len(rec.Fields))
	for col, val := range rec.Fields {
		lower := strings.ToLower(strings.TrimSpace(col))
		if name == "" && (lower == "name" || lower == "nombre" || lower == "descripcion" || lower == "descripción") {
			if s, ok := val.Scalar().(string); ok {
				name = s
				continue
			}
		}
		extra[col] = val.Scalar()
	}
	return name, extra
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var p models.Product
		var extra []byte
		if err := rows.Scan(&p.Key, &p.Name, &p.NormalizedName, &p.Cost, &p.UnitsPerBox, &p.Markup,
			&p.UnitCost, &p.PriceRaw, &p.Price, &p.Margin, &extra, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if len(extra) > 0 {
			_ = json.Unmarshal(extra, &p.ExtraFields)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
