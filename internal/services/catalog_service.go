package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printstore/internal/infra/cache"
	"printstore/internal/pricing"
	"printstore/internal/repository"
)

type VariantQuote struct {
	VariantID string          `json:"variantId"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// CatalogService quotes variant prices for storefront listings. Checkout
// never reads these quotes; it prices inside its own transaction.
type CatalogService struct {
	variants repository.VariantRepository
	cache    cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

func NewCatalogService(variants repository.VariantRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{variants: variants, cache: c, ttl: ttl, logger: logger}
}

func (s *CatalogService) QuoteVariant(ctx context.Context, variantID string) (*VariantQuote, error) {
	var key string
	if s.cache != nil {
		key = s.cache.Key("variant-quote", variantID)
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("quote cache read failed", zap.String("variant_id", variantID), zap.Error(err))
		} else if cached != "" {
			var q VariantQuote
			if err := json.Unmarshal([]byte(cached), &q); err == nil {
				return &q, nil
			}
		}
	}

	v, err := s.variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVariantNotFound
	}
	q := &VariantQuote{
		VariantID: v.ID,
		Price:     pricing.PriceVariant(*v),
		Stock:     v.Stock,
	}

	if s.cache != nil {
		if data, err := json.Marshal(q); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.logger.Warn("quote cache write failed", zap.String("variant_id", variantID), zap.Error(err))
			}
		}
	}
	return q, nil
}
