package repositories

import (
	"context"
	"fmt"
	"strings"

	"abarrotes-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MovementRepository struct {
	DB *pgxpool.Pool
}

func NewMovementRepository(db *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{DB: db}
}

const movementColumns = "id, account_id, amount, direction, category, note, counter_account_id, balance_after, created_at"

// Insert appends one movement inside tx. balanceAfter is the account
// balance snapshot taken after the posting.
func (r *MovementRepository) Insert(ctx context.Context, tx pgx.Tx, req *models.CreateMovementRequest, balanceAfter float64) (*models.Movement, error) {
	query := `
		INSERT INTO movements (account_id, amount, direction, category, note, counter_account_id, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + movementColumns

	var m models.Movement
	err := tx.QueryRow(ctx, query,
		req.AccountID, req.Amount, req.Direction, req.Category, req.Note, req.CounterAccountID, balanceAfter,
	).Scan(&m.ID, &m.AccountID, &m.Amount, &m.Direction, &m.Category, &m.Note, &m.CounterAccountID, &m.BalanceAfter, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert movement: %w", err)
	}
	return &m, nil
}

// List returns movements matching the filter, newest first.
func (r *MovementRepository) List(ctx context.Context, filter *models.MovementFilter) ([]models.Movement, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", argNum))
		args = append(args, *filter.AccountID)
		argNum++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argNum))
		args = append(args, filter.Category)
		argNum++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
		args = append(args, filter.StartDate)
		argNum++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argNum))
		args = append(args, filter.EndDate)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM movements
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, movementColumns, whereClause, argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Amount, &m.Direction, &m.Category, &m.Note, &m.CounterAccountID, &m.BalanceAfter, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
