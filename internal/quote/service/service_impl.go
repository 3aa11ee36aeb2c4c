package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/events"
	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/metrics"
	pricingdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/engine"
	quotedomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/quote/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
	valuationdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
)

// Service assembles the pricing context from the collaborator services and
// hands it to the pure engine. It owns the full lifecycle of a simulation;
// nothing it builds outlives the response.
type Service struct {
	log *zap.Logger

	settingsSvc  settingsdomain.Service
	folderSvc    folderdomain.Service
	catalogSvc   catalogdomain.Service
	valuationSvc valuationdomain.Service
	engine       *engine.Engine
	outbox       *events.Outbox
	metrics      *metrics.PricingMetrics
}

type ServiceParam struct {
	fx.In

	Log          *zap.Logger
	SettingsSvc  settingsdomain.Service
	FolderSvc    folderdomain.Service
	CatalogSvc   catalogdomain.Service
	ValuationSvc valuationdomain.Service
	Engine       *engine.Engine
	Outbox       *events.Outbox
	Metrics      *metrics.PricingMetrics `optional:"true"`
}

func NewService(p ServiceParam) quotedomain.Service {
	return &Service{
		log:          p.Log.Named("quote.service"),
		settingsSvc:  p.SettingsSvc,
		folderSvc:    p.FolderSvc,
		catalogSvc:   p.CatalogSvc,
		valuationSvc: p.ValuationSvc,
		engine:       p.Engine,
		outbox:       p.Outbox,
		metrics:      p.Metrics,
	}
}

func (s *Service) Simulate(ctx context.Context, orgID snowflake.ID, req quotedomain.SimulateRequest) (pricingdomain.QuotePreview, error) {
	operationCode := strings.TrimSpace(req.OperationCode)
	if operationCode == "" {
		return pricingdomain.QuotePreview{}, quotedomain.ErrInvalidOperationCode
	}
	if req.TargetRAC != nil && req.TargetRAC.IsNegative() {
		return pricingdomain.QuotePreview{}, quotedomain.ErrInvalidTargetRAC
	}
	productIDs, err := parseProductIDs(req.ProductIDs)
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}

	settings, err := s.settingsSvc.GetOrCreate(ctx, orgID, operationCode)
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}

	folder, err := s.folderSvc.Get(ctx, orgID, req.FolderID)
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}

	products, err := s.catalogSvc.GetByIDs(ctx, orgID, productIDs)
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}
	laborProducts, err := s.catalogSvc.GetByReferences(ctx, orgID, settings.DefaultLaborRefs)
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}
	thermostat, err := s.loadCompatibleThermostat(ctx, orgID, products)
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}

	buyback, err := s.valuationSvc.BuybackPrice(ctx, orgID, operationCode, string(folder.IncomeTier))
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}

	pctx := pricingdomain.Context{
		OrgID:                orgID,
		OperationCode:        operationCode,
		FolderID:             folder.ID,
		ProductIDs:           productIDs,
		TargetRAC:            req.TargetRAC,
		SurfaceM2:            folder.SurfaceM2,
		PropertyType:         folder.PropertyType,
		ClimateZone:          folder.ClimateZone,
		IncomeTier:           folder.IncomeTier,
		EmitterRegime:        folder.EmitterRegime,
		Products:             products,
		LaborProducts:        laborProducts,
		CompatibleThermostat: thermostat,
		BuybackPrice:         buyback,
	}

	preview, err := s.engine.Simulate(pctx, settings)
	if err != nil {
		return pricingdomain.QuotePreview{}, err
	}

	s.metrics.RecordSimulation(preview.Strategy, preview.PercentageDistribution, len(preview.Warnings))
	s.publishSimulated(ctx, orgID, folder.ID, operationCode, preview)

	return preview, nil
}

// loadCompatibleThermostat resolves the thermostat referenced by the selected
// heat pump's compatibility link when it is not already part of the selection.
func (s *Service) loadCompatibleThermostat(ctx context.Context, orgID snowflake.ID, products []catalogdomain.Product) (*catalogdomain.Product, error) {
	var linked *snowflake.ID
	for _, p := range products {
		if p.Category == catalogdomain.CategoryHeatPump && p.HeatPump != nil && p.HeatPump.CompatibleThermostatID != nil {
			linked = p.HeatPump.CompatibleThermostatID
			break
		}
	}
	if linked == nil {
		return nil, nil
	}
	for i := range products {
		if products[i].ID == *linked {
			return &products[i], nil
		}
	}
	thermostat, err := s.catalogSvc.GetByID(ctx, orgID, *linked)
	if err != nil {
		return nil, err
	}
	return &thermostat, nil
}

// publishSimulated is best-effort: a full quote preview is still returned
// when the outbox insert fails.
func (s *Service) publishSimulated(ctx context.Context, orgID, folderID snowflake.ID, operationCode string, preview pricingdomain.QuotePreview) {
	payload := events.QuoteSimulatedPayload{
		FolderID:      folderID.String(),
		OperationCode: operationCode,
		Strategy:      preview.Strategy,
		Subsidy:       preview.Subsidy.String(),
		RAC:           preview.RAC.String(),
		Warnings:      preview.Warnings,
	}
	err := s.outbox.Publish(ctx, events.Event{
		OrgID:     orgID,
		Type:      events.EventQuoteSimulated,
		Payload:   payload.ToMap(),
		DedupeKey: fmt.Sprintf("%s|%s|%s", folderID, preview.Strategy, preview.RAC),
	})
	if err != nil {
		s.log.Warn("failed to publish quote.simulated event",
			zap.String("org_id", orgID.String()),
			zap.String("folder_id", folderID.String()),
			zap.Error(err),
		)
	}
}

func parseProductIDs(raw []string) ([]snowflake.ID, error) {
	if len(raw) == 0 {
		return nil, quotedomain.ErrInvalidProductSelection
	}
	ids := make([]snowflake.ID, 0, len(raw))
	for _, value := range raw {
		id, err := snowflake.ParseString(strings.TrimSpace(value))
		if err != nil {
			return nil, quotedomain.ErrInvalidProductSelection
		}
		ids = append(ids, id)
	}
	return ids, nil
}
