package repositories

import (
	"context"
	"fmt"
	"strings"

	"abarrotes-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	DB *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = "id, code, name, nature, balance, parent_id, visible, sort_order, created_at"

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Nature, &a.Balance, &a.ParentID, &a.Visible, &a.SortOrder, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	query := `
		INSERT INTO accounts (code, name, nature, balance, parent_id, visible, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns

	return scanAccount(r.DB.QueryRow(ctx, query,
		req.Code, req.Name, req.Nature, req.Balance, req.ParentID, visible, req.SortOrder))
}

func (r *AccountRepository) Get(ctx context.Context, id int) (*models.Account, error) {
	return scanAccount(r.DB.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
}

func (r *AccountRepository) List(ctx context.Context, includeHidden bool) ([]models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts"
	if !includeHidden {
		query += " WHERE visible = TRUE"
	}
	query += " ORDER BY sort_order, code"

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Nature, &a.Balance, &a.ParentID, &a.Visible, &a.SortOrder, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Update applies only the fields present in the request.
func (r *AccountRepository) Update(ctx context.Context, id int, req *models.UpdateAccountRequest) (*models.Account, error) {
	var sets []string
	var args []interface{}
	argNum := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argNum))
		args = append(args, *req.Name)
		argNum++
	}
	if req.Balance != nil {
		sets = append(sets, fmt.Sprintf("balance = $%d", argNum))
		args = append(args, *req.Balance)
		argNum++
	}
	if req.Visible != nil {
		sets = append(sets, fmt.Sprintf("visible = $%d", argNum))
		args = append(args, *req.Visible)
		argNum++
	}
	if req.SortOrder != nil {
		sets = append(sets, fmt.Sprintf("sort_order = $%d", argNum))
		args = append(args, *req.SortOrder)
		argNum++
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	query := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), argNum, accountColumns)
	args = append(args, id)

	return scanAccount(r.DB.QueryRow(ctx, query, args...))
}

// CountChildren returns how many accounts reference id as their parent.
func (r *AccountRepository) CountChildren(ctx context.Context, id int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM accounts WHERE parent_id = $1", id).Scan(&count)
	return count, err
}

// Delete removes the account row. Movements are left untouched: the
// history stays queryable after the account is gone.
func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustBalance atomically moves the balance by delta inside tx and
// returns the new balance.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, id int, delta float64) (float64, error) {
	var balance float64
	err := tx.QueryRow(ctx,
		"UPDATE accounts SET balance = balance + $1 WHERE id = $2 RETURNING balance",
		delta, id,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}
