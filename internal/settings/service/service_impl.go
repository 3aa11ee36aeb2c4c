package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		genID: p.GenID,
	}
}

func (s *Service) GetOrCreate(ctx context.Context, orgID snowflake.ID, operationCode string) (domain.ModuleSettings, error) {
	operationCode = strings.TrimSpace(operationCode)
	if orgID == 0 || operationCode == "" {
		return domain.ModuleSettings{}, domain.ErrInvalidOperationCode
	}

	settings, err := s.load(ctx, orgID, operationCode)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ModuleSettings{}, err
	}

	now := time.Now().UTC()
	defaults := domain.ModuleSettings{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		OperationCode: operationCode,
		RoundingMode:  domain.RoundingModeNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// Concurrent first reads race on the unique (org, operation) index; the
	// losing insert is a no-op and the winner's row is re-read.
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&defaults).Error; err != nil {
		return domain.ModuleSettings{}, err
	}
	s.log.Info("created default module settings",
		zap.String("org_id", orgID.String()),
		zap.String("operation_code", operationCode),
	)
	return s.load(ctx, orgID, operationCode)
}

func (s *Service) Update(ctx context.Context, orgID snowflake.ID, operationCode string, req domain.UpdateSettingsRequest) (domain.ModuleSettings, error) {
	settings, err := s.GetOrCreate(ctx, orgID, operationCode)
	if err != nil {
		return domain.ModuleSettings{}, err
	}

	if req.GridRulesEnabled != nil {
		settings.GridRulesEnabled = *req.GridRulesEnabled
	}
	if req.RoundingMode != nil {
		switch *req.RoundingMode {
		case domain.RoundingModeNone, domain.RoundingModeX90:
			settings.RoundingMode = *req.RoundingMode
		default:
			return domain.ModuleSettings{}, domain.ErrInvalidRoundingMode
		}
	}
	if req.MinMargin != nil {
		if req.MinMargin.IsNegative() {
			return domain.ModuleSettings{}, domain.ErrInvalidMinMargin
		}
		settings.MinMargin = *req.MinMargin
	}
	if req.MaxRacAddon != nil {
		settings.MaxRacAddon = req.MaxRacAddon
	}
	if req.DefaultLaborRefs != nil {
		settings.DefaultLaborRefs = datatypes.NewJSONSlice(*req.DefaultLaborRefs)
	}
	if req.FixedItems != nil {
		settings.FixedItems = datatypes.NewJSONSlice(*req.FixedItems)
	}
	if req.PercentQuotas != nil {
		if err := validateQuotas(*req.PercentQuotas); err != nil {
			return domain.ModuleSettings{}, err
		}
		settings.PercentQuotas = datatypes.NewJSONType(*req.PercentQuotas)
	}
	if req.GridRules != nil {
		for _, rule := range *req.GridRules {
			if err := validateGridRule(rule); err != nil {
				return domain.ModuleSettings{}, err
			}
		}
		settings.GridRules = datatypes.NewJSONSlice(*req.GridRules)
	}

	settings.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return domain.ModuleSettings{}, err
	}
	return settings, nil
}

func (s *Service) load(ctx context.Context, orgID snowflake.ID, operationCode string) (domain.ModuleSettings, error) {
	var settings domain.ModuleSettings
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND operation_code = ?", orgID, operationCode).
		First(&settings).Error
	return settings, err
}

func validateQuotas(quotas map[string]float64) error {
	var sum float64
	for _, pct := range quotas {
		if pct < 0 || pct > 100 {
			return domain.ErrInvalidQuotas
		}
		sum += pct
	}
	if sum > 100 {
		return domain.ErrInvalidQuotas
	}
	return nil
}

func validateGridRule(rule domain.GridRule) error {
	if strings.TrimSpace(rule.Brand) == "" {
		return domain.ErrInvalidGridRule
	}
	if rule.EtasMin > rule.EtasMax || rule.SurfaceMin > rule.SurfaceMax {
		return domain.ErrInvalidGridRule
	}
	if rule.Amount.IsNegative() {
		return domain.ErrInvalidGridRule
	}
	return nil
}
