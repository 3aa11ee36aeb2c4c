package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
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
		log:   p.Log.Named("folder.service"),
		genID: p.GenID,
	}
}

func (s *Service) Get(ctx context.Context, orgID snowflake.ID, id string) (domain.Folder, error) {
	folderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Folder{}, domain.ErrInvalidFolderID
	}
	var folder domain.Folder
	err = s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, folderID).
		First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Folder{}, domain.ErrFolderNotFound
	}
	if err != nil {
		return domain.Folder{}, err
	}
	return folder, nil
}

func (s *Service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateFolderRequest) (domain.Folder, error) {
	if req.SurfaceM2 <= 0 {
		return domain.Folder{}, domain.ErrInvalidSurface
	}
	switch req.PropertyType {
	case domain.PropertyTypeHouse, domain.PropertyTypeApartment:
	default:
		return domain.Folder{}, domain.ErrInvalidPropertyType
	}
	switch req.IncomeTier {
	case domain.IncomeTierVeryModest, domain.IncomeTierModest, domain.IncomeTierStandard:
	default:
		return domain.Folder{}, domain.ErrInvalidIncomeTier
	}
	regime := req.EmitterRegime
	if regime == "" {
		regime = domain.EmitterRegimeHigh
	}

	now := time.Now().UTC()
	folder := domain.Folder{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		SurfaceM2:     req.SurfaceM2,
		PropertyType:  req.PropertyType,
		ClimateZone:   req.ClimateZone,
		IncomeTier:    req.IncomeTier,
		EmitterRegime: regime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(&folder).Error; err != nil {
		return domain.Folder{}, err
	}
	return folder, nil
}
