package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/clock"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("valuation.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) BuybackPrice(ctx context.Context, orgID snowflake.ID, operationCode, incomeTier string) (decimal.Decimal, error) {
	operationCode = strings.TrimSpace(operationCode)
	if operationCode == "" {
		return decimal.Zero, domain.ErrInvalidOperationCode
	}

	row, err := s.find(ctx, orgID, operationCode, strings.TrimSpace(incomeTier))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row, err = s.find(ctx, orgID, operationCode, domain.TierStandard)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("no subsidy valuation configured",
			zap.String("org_id", orgID.String()),
			zap.String("operation_code", operationCode),
			zap.String("income_tier", incomeTier),
		)
		return decimal.Zero, domain.ErrValuationNotConfigured
	}
	if err != nil {
		return decimal.Zero, err
	}
	return row.BuybackPrice, nil
}

func (s *Service) Upsert(ctx context.Context, orgID snowflake.ID, req domain.UpsertValuationRequest) (domain.OperationValuation, error) {
	operationCode := strings.TrimSpace(req.OperationCode)
	if operationCode == "" {
		return domain.OperationValuation{}, domain.ErrInvalidOperationCode
	}
	if req.BuybackPrice.Sign() <= 0 {
		return domain.OperationValuation{}, domain.ErrInvalidBuybackPrice
	}
	tier := strings.TrimSpace(req.IncomeTier)
	if tier == "" {
		tier = domain.TierStandard
	}

	now := s.clock.Now()
	row := domain.OperationValuation{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		OperationCode: operationCode,
		IncomeTier:    tier,
		BuybackPrice:  req.BuybackPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "org_id"}, {Name: "operation_code"}, {Name: "income_tier"}},
			DoUpdates: clause.AssignmentColumns([]string{"buyback_price", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return domain.OperationValuation{}, err
	}
	return row, nil
}

func (s *Service) List(ctx context.Context, orgID snowflake.ID, operationCode string) ([]domain.OperationValuation, error) {
	query := s.db.WithContext(ctx).Where("org_id = ?", orgID)
	if operationCode = strings.TrimSpace(operationCode); operationCode != "" {
		query = query.Where("operation_code = ?", operationCode)
	}
	var rows []domain.OperationValuation
	if err := query.Order("operation_code, income_tier").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) find(ctx context.Context, orgID snowflake.ID, operationCode, tier string) (domain.OperationValuation, error) {
	var row domain.OperationValuation
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND operation_code = ? AND income_tier = ?", orgID, operationCode, tier).
		First(&row).Error
	return row, err
}
