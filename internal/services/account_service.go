package services

import (
	"context"
	"errors"
	"fmt"

	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAccountHasChildren = errors.New("account has child accounts and cannot be deleted")
	ErrSameAccount        = errors.New("counter account must differ from the source account")
)

// AccountService owns the bookkeeping rules: account lifecycle and
// append-only movement postings that keep balances in step.
type AccountService struct {
	Pool      *pgxpool.Pool
	Accounts  *repositories.AccountRepository
	Movements *repositories.MovementRepository
}

func NewAccountService(pool *pgxpool.Pool, accounts *repositories.AccountRepository, movements *repositories.MovementRepository) *AccountService {
	return &AccountService{Pool: pool, Accounts: accounts, Movements: movements}
}

func (s *AccountService) Create(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	if req.Code == "" || req.Name == "" {
		return nil, errors.New("code and name are required")
	}
	if !models.ValidNature(req.Nature) {
		return nil, fmt.Errorf("invalid account nature %q", req.Nature)
	}
	if req.ParentID != nil {
		if _, err := s.Accounts.Get(ctx, *req.ParentID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, errors.New("parent account does not exist")
			}
			return nil, err
		}
	}
	return s.Accounts.Create(ctx, req)
}

func (s *AccountService) Get(ctx context.Context, id int) (*models.Account, error) {
	return s.Accounts.Get(ctx, id)
}

func (s *AccountService) List(ctx context.Context, includeHidden bool) ([]models.Account, error) {
	return s.Accounts.List(ctx, includeHidden)
}

func (s *AccountService) Update(ctx context.Context, id int, req *models.UpdateAccountRequest) (*models.Account, error) {
	return s.Accounts.Update(ctx, id, req)
}

// Delete removes an account. Accounts referenced as a parent stay put,
// and movement history is deliberately left intact (audit trail).
func (s *AccountService) Delete(ctx context.Context, id int) error {
	children, err := s.Accounts.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrAccountHasChildren
	}
	return s.Accounts.Delete(ctx, id)
}

// PostMovement appends a movement and adjusts the account balance in
// one transaction. A transfer (counter account set) posts the mirrored
// movement on the counter account inside the same transaction.
func (s *AccountService) PostMovement(ctx context.Context, req *models.CreateMovementRequest) (*models.Movement, error) {
	if req.Amount <= 0 {
		return nil, errors.New("amount must be greater than zero")
	}
	if req.Direction != models.DirectionIn && req.Direction != models.DirectionOut {
		return nil, fmt.Errorf("invalid direction %q", req.Direction)
	}
	if req.CounterAccountID != nil && *req.CounterAccountID == req.AccountID {
		return nil, ErrSameAccount
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	delta := req.Amount
	if req.Direction == models.DirectionOut {
		delta = -req.Amount
	}

	balance, err := s.Accounts.AdjustBalance(ctx, tx, req.AccountID, delta)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.New("account does not exist")
		}
		return nil, err
	}

	movement, err := s.Movements.Insert(ctx, tx, req, balance)
	if err != nil {
		return nil, err
	}

	if req.CounterAccountID != nil {
		mirrored := &models.CreateMovementRequest{
			AccountID:        *req.CounterAccountID,
			Amount:           req.Amount,
			Direction:        opposite(req.Direction),
			Category:         req.Category,
			Note:             req.Note,
			CounterAccountID: &req.AccountID,
		}

		counterBalance, err := s.Accounts.AdjustBalance(ctx, tx, mirrored.AccountID, -delta)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, errors.New("counter account does not exist")
			}
			return nil, err
		}
		if _, err := s.Movements.Insert(ctx, tx, mirrored, counterBalance); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit movement: %w", err)
	}
	return movement, nil
}

func (s *AccountService) ListMovements(ctx context.Context, filter *models.MovementFilter) ([]models.Movement, error) {
	return s.Movements.List(ctx, filter)
}

func opposite(d models.MovementDirection) models.MovementDirection {
	if d == models.DirectionIn {
		return models.DirectionOut
	}
	return models.DirectionIn
}
