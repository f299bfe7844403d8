// Package catalog creates and lists the products experts sell. Products live
// at the payment provider; the owner is recorded in product metadata.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mentorpay/internal/provider"
	"mentorpay/internal/utils/validation"

	"github.com/google/uuid"
)

type Service interface {
	CreateProduct(ctx context.Context, in NewProduct) (*Product, error)
	ListProducts(ctx context.Context, filter ListFilter) (*ProductList, error)
}

// Cache is the listing cache. Failures are logged and fall through to the
// provider.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteMany(ctx context.Context, pattern string) error
}

type service struct {
	provider provider.Provider
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewService builds the catalog. cache may be nil, and a zero ttl disables caching.
func NewService(p provider.Provider, cache Cache, cacheTTL time.Duration, logger *slog.Logger) Service {
	if cacheTTL <= 0 {
		cache = nil
	}
	return &service{
		provider: p,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "catalog"),
	}
}

func (s *service) CreateProduct(ctx context.Context, in NewProduct) (*Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = strings.ToLower(strings.TrimSpace(in.Currency))

	v := validation.New()
	v.Required(in.Name, "name")
	v.Check(in.UnitAmountMinorUnits > 0, "unitAmountMinorUnits", "must be greater than zero")
	v.Check(in.UnitAmountMinorUnits <= MaxUnitAmount, "unitAmountMinorUnits", "is too large")
	v.Currency(in.Currency, "currency")
	v.Required(in.OwnerAccountID, "ownerAccountId")
	if err := v.Err(); err != nil {
		return nil, err
	}

	created, err := s.provider.CreateProduct(ctx, provider.CreateProductParams{
		Name:                 in.Name,
		Description:          in.Description,
		UnitAmountMinorUnits: in.UnitAmountMinorUnits,
		Currency:             in.Currency,
		Metadata: map[string]string{
			OwnerMetadataKey:    in.OwnerAccountID,
			metaCreatedByUserID: strconv.FormatUint(uint64(in.CreatedByUserID), 10),
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidate(ctx, in.OwnerAccountID)
	s.logger.InfoContext(ctx, "product created",
		"product_id", created.ID, "price_ref", created.PriceRef, "account_id", in.OwnerAccountID)

	p := toProduct(*created)
	return &p, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (*ProductList, error) {
	filter.Limit = clampLimit(filter.Limit)
	key := listKey(filter)

	if s.cache != nil {
		var cached ProductList
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
		} else if found {
			return &cached, nil
		}
	}

	query := provider.ProductQuery{Limit: filter.Limit}
	if filter.OwnerAccountID != "" {
		query.Metadata = map[string]string{OwnerMetadataKey: filter.OwnerAccountID}
	}
	page, err := s.provider.ListProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	list := &ProductList{Products: make([]Product, 0, len(page.Items)), HasMore: page.HasMore}
	for _, item := range page.Items {
		list.Products = append(list.Products, toProduct(item))
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, key, list, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
		}
	}
	return list, nil
}

// invalidate drops the owner's listings and the unfiltered ones.
func (s *service) invalidate(ctx context.Context, ownerAccountID string) {
	if s.cache == nil {
		return
	}
	for _, owner := range []string{ownerAccountID, "all"} {
		pattern := fmt.Sprintf("catalog:owner:%s:*", owner)
		if err := s.cache.DeleteMany(ctx, pattern); err != nil {
			s.logger.WarnContext(ctx, "catalog cache invalidation failed", "pattern", pattern, "error", err)
		}
	}
}

func listKey(f ListFilter) string {
	owner := f.OwnerAccountID
	if owner == "" {
		owner = "all"
	}
	return fmt.Sprintf("catalog:owner:%s:limit:%d", owner, f.Limit)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func toProduct(p provider.Product) Product {
	return Product{
		ProductID:            p.ID,
		PriceRef:             p.PriceRef,
		Name:                 p.Name,
		Description:          p.Description,
		UnitAmountMinorUnits: p.UnitAmountMinorUnits,
		CurrencyCode:         p.Currency,
		DisplayPrice:         FormatMinorUnits(p.UnitAmountMinorUnits, p.Currency),
		OwnerAccountID:       p.Metadata[OwnerMetadataKey],
		CreatedAt:            p.CreatedAt,
	}
}
