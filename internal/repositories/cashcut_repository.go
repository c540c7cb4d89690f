package repositories

import (
	"context"
	"fmt"
	"time"

	"abarrotes-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CashCutRepository persists cash cuts. Rows are written once and
// never updated.
type CashCutRepository struct {
	DB *pgxpool.Pool
}

func NewCashCutRepository(db *pgxpool.Pool) *CashCutRepository {
	return &CashCutRepository{DB: db}
}

const cashCutColumns = `id, sales, party_income, recharges, stay_income, receivables_payments,
	personal_consumption, general_expenses, delivered_cash,
	total_income, total_expenses, computed_cash, variance,
	note, created_by_user_id, created_at`

func (r *CashCutRepository) Create(ctx context.Context, cut *models.CashCut) (*models.CashCut, error) {
	query := `
		INSERT INTO cash_cuts (
			sales, party_income, recharges, stay_income, receivables_payments,
			personal_consumption, general_expenses, delivered_cash,
			total_income, total_expenses, computed_cash, variance,
			note, created_by_user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		cut.Sales, cut.PartyIncome, cut.Recharges, cut.StayIncome, cut.ReceivablesPayments,
		cut.PersonalConsumption, cut.GeneralExpenses, cut.DeliveredCash,
		cut.TotalIncome, cut.TotalExpenses, cut.ComputedCash, cut.Variance,
		cut.Note, cut.CreatedByUserID,
	).Scan(&cut.ID, &cut.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cash cut: %w", err)
	}
	return cut, nil
}

func (r *CashCutRepository) Get(ctx context.Context, id int) (*models.CashCut, error) {
	row := r.DB.QueryRow(ctx, "SELECT "+cashCutColumns+" FROM cash_cuts WHERE id = $1", id)

	var c models.CashCut
	err := scanCashCut(row, &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListBetween returns cuts created inside [start, end], newest first.
func (r *CashCutRepository) ListBetween(ctx context.Context, start, end time.Time, limit, offset int) ([]models.CashCut, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+cashCutColumns+`
		FROM cash_cuts
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, start, end, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cuts []models.CashCut
	for rows.Next() {
		var c models.CashCut
		if err := scanCashCut(rows, &c); err != nil {
			return nil, err
		}
		cuts = append(cuts, c)
	}
	return cuts, rows.Err()
}

func scanCashCut(row pgx.Row, c *models.CashCut) error {
	return row.Scan(
		&c.ID, &c.Sales, &c.PartyIncome, &c.Recharges, &c.StayIncome, &c.ReceivablesPayments,
		&c.PersonalConsumption, &c.GeneralExpenses, &c.DeliveredCash,
		&c.TotalIncome, &c.TotalExpenses, &c.ComputedCash, &c.Variance,
		&c.Note, &c.CreatedByUserID, &c.CreatedAt,
	)
}
