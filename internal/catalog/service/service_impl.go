package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/cache"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
)

// productCacheTTL bounds staleness of per-product reads on the simulation
// hot path. Tenant pricing configuration is never cached.
const productCacheTTL = 30 * time.Second

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	products *cache.TTLCache[snowflake.ID, domain.Product]
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("catalog.service"),
		genID:    p.GenID,
		products: cache.New[snowflake.ID, domain.Product](productCacheTTL),
	}
}

func (s *Service) GetByIDs(ctx context.Context, orgID snowflake.ID, ids []snowflake.ID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []domain.Product
	err := s.db.WithContext(ctx).
		Preload("HeatPump").
		Where("org_id = ? AND id IN ?", orgID, ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	if len(products) != len(uniqueIDs(ids)) {
		return nil, domain.ErrProductNotFound
	}
	return products, nil
}

func (s *Service) GetByID(ctx context.Context, orgID, id snowflake.ID) (domain.Product, error) {
	if cached, ok := s.products.Get(id); ok && cached.OrgID == orgID {
		return cached, nil
	}
	var product domain.Product
	err := s.db.WithContext(ctx).
		Preload("HeatPump").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	s.products.Set(id, product)
	return product, nil
}

func (s *Service) GetByReferences(ctx context.Context, orgID snowflake.ID, refs []string) ([]domain.Product, error) {
	trimmed := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			trimmed = append(trimmed, ref)
		}
	}
	if len(trimmed) == 0 {
		return nil, nil
	}
	var products []domain.Product
	err := s.db.WithContext(ctx).
		Preload("HeatPump").
		Where("org_id = ? AND reference IN ?", orgID, trimmed).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateProductRequest) (domain.Product, error) {
	if err := validateCreate(req); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		Category:     req.Category,
		Brand:        strings.TrimSpace(req.Brand),
		Reference:    strings.TrimSpace(req.Reference),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		SalePrice:    req.SalePrice,
		PurchaseCost: req.PurchaseCost,
		TaxRate:      decimal.NewFromFloat(5.5),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	if req.HeatPump != nil {
		detail := *req.HeatPump
		detail.ID = s.genID.Generate()
		detail.ProductID = product.ID
		detail.CreatedAt = now
		product.HeatPump = &detail
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detail := product.HeatPump
		product.HeatPump = nil
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if detail != nil {
			if err := tx.Create(detail).Error; err != nil {
				return err
			}
			product.HeatPump = detail
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.products.Delete(product.ID)
	return product, nil
}

func (s *Service) List(ctx context.Context, orgID snowflake.ID, req domain.ListProductRequest) ([]domain.Product, error) {
	query := s.db.WithContext(ctx).
		Preload("HeatPump").
		Where("org_id = ?", orgID)
	if category := strings.TrimSpace(req.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	var products []domain.Product
	if err := query.Order("reference").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func validateCreate(req domain.CreateProductRequest) error {
	switch req.Category {
	case domain.CategoryHeatPump, domain.CategoryThermostat, domain.CategoryLabor, domain.CategoryOther:
	default:
		return domain.ErrInvalidCategory
	}
	if strings.TrimSpace(req.Reference) == "" || strings.TrimSpace(req.Name) == "" {
		return domain.ErrInvalidReference
	}
	if req.SalePrice.IsNegative() {
		return domain.ErrInvalidSalePrice
	}
	if req.PurchaseCost != nil && req.PurchaseCost.IsNegative() {
		return domain.ErrInvalidSalePrice
	}
	if req.TaxRate != nil && (req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(100))) {
		return domain.ErrInvalidTaxRate
	}
	return nil
}

func uniqueIDs(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
