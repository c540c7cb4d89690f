package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"abarrotes-backend/internal/cache"
	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/pricing"
	"abarrotes-backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// ProductService wraps the catalog: lookups, name search and the
// cost-driven repricing flow.
type ProductService struct {
	Repo *repositories.ProductRepository
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{Repo: repo}
}

func (s *ProductService) Get(ctx context.Context, key string) (*models.Product, error) {
	if data, ok := cache.GetCachedProduct(ctx, key); ok {
		var p models.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
	}

	p, err := s.Repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		cache.CacheProduct(ctx, key, data)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Search finds products whose name contains the query, accents and
// case ignored.
func (s *ProductService) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	normalized := pricing.Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	if data, ok := cache.GetCachedSearch(ctx, normalized); ok {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}

	products, err := s.Repo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		cache.CacheSearch(ctx, normalized, data)
	}
	return products, nil
}

func (s *ProductService) Save(ctx context.Context, p *models.Product) error {
	if p.Key == "" {
		return errors.New("product key is required")
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return err
	}
	cache.InvalidateProduct(ctx, p.Key)
	return nil
}

func (s *ProductService) Delete(ctx context.Context, key string) error {
	if err := s.Repo.Delete(ctx, key); err != nil {
		return err
	}
	cache.InvalidateProduct(ctx, key)
	return nil
}

// Reprice recalculates a product's derived prices from a new box cost.
// On any calculation error nothing is written, the stored row keeps
// its previous prices.
func (s *ProductService) Reprice(ctx context.Context, key string, req *models.RepriceRequest) (*models.Product, error) {
	p, err := s.Repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Zero means keep the stored value.
	unitsPerBox := p.UnitsPerBox
	if req.UnitsPerBox != 0 {
		unitsPerBox = req.UnitsPerBox
	}
	markup := p.Markup
	if req.Markup != 0 {
		markup = req.Markup
	}

	quote, err := pricing.Recalculate(
		decimal.NewFromFloat(req.NewCost),
		unitsPerBox,
		decimal.NewFromFloat(markup),
	)
	if err != nil {
		return nil, err
	}

	p.Cost = req.NewCost
	p.UnitsPerBox = unitsPerBox
	p.Markup = markup
	p.UnitCost, _ = quote.UnitCost.Float64()
	p.PriceRaw, _ = quote.PriceRaw.Float64()
	p.Price, _ = quote.Price.Float64()
	p.Margin, _ = quote.Margin.Float64()

	if err := s.Repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	cache.InvalidateProduct(ctx, key)

	log.Printf("[Pricing] %s repriced: cost %.2f, unit cost %.2f, price %.2f", key, p.Cost, p.UnitCost, p.Price)
	return p, nil
}
