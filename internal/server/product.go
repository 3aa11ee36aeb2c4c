package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
)

type createProductRequest struct {
	Category     string                 `json:"category"`
	Brand        string                 `json:"brand"`
	Reference    string                 `json:"reference"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	SalePrice    string                 `json:"sale_price"`
	PurchaseCost *string                `json:"purchase_cost,omitempty"`
	TaxRate      *string                `json:"tax_rate,omitempty"`
	HeatPump     *heatPumpDetailRequest `json:"heat_pump,omitempty"`
}

type heatPumpDetailRequest struct {
	EtasAt35               *int    `json:"etas_at_35,omitempty"`
	EtasAt55               *int    `json:"etas_at_55,omitempty"`
	CompatibleThermostatID *string `json:"compatible_thermostat_id,omitempty"`
}

// @Summary      Create Product
// @Description  Add a product to the tenant catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body createProductRequest true "Create Product Request"
// @Success      200  {object}  catalogdomain.Product
// @Router       /v1/products [post]
func (s *Server) CreateProduct(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	salePrice, err := decimal.NewFromString(strings.TrimSpace(req.SalePrice))
	if err != nil {
		AbortWithError(c, newValidationError("sale_price", "invalid_sale_price", "invalid sale price"))
		return
	}
	purchaseCost, err := parseOptionalDecimal(req.PurchaseCost)
	if err != nil {
		AbortWithError(c, newValidationError("purchase_cost", "invalid_purchase_cost", "invalid purchase cost"))
		return
	}
	taxRate, err := parseOptionalDecimal(req.TaxRate)
	if err != nil {
		AbortWithError(c, newValidationError("tax_rate", "invalid_tax_rate", "invalid tax rate"))
		return
	}

	var detail *catalogdomain.HeatPumpDetail
	if req.HeatPump != nil {
		detail = &catalogdomain.HeatPumpDetail{
			EtasAt35: req.HeatPump.EtasAt35,
			EtasAt55: req.HeatPump.EtasAt55,
		}
		if req.HeatPump.CompatibleThermostatID != nil {
			thermostatID, err := snowflake.ParseString(strings.TrimSpace(*req.HeatPump.CompatibleThermostatID))
			if err != nil {
				AbortWithError(c, newValidationError("compatible_thermostat_id", "invalid_product_id", "invalid thermostat id"))
				return
			}
			detail.CompatibleThermostatID = &thermostatID
		}
	}

	product, err := s.catalogSvc.Create(c.Request.Context(), orgID, catalogdomain.CreateProductRequest{
		Category:     catalogdomain.ProductCategory(strings.TrimSpace(req.Category)),
		Brand:        strings.TrimSpace(req.Brand),
		Reference:    strings.TrimSpace(req.Reference),
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		SalePrice:    salePrice,
		PurchaseCost: purchaseCost,
		TaxRate:      taxRate,
		HeatPump:     detail,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

// @Summary      List Products
// @Description  List the tenant catalog, optionally filtered by category
// @Tags         products
// @Produce      json
// @Param        category query string false "Category"
// @Success      200  {object}  []catalogdomain.Product
// @Router       /v1/products [get]
func (s *Server) ListProducts(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query catalogdomain.ListProductRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	products, err := s.catalogSvc.List(c.Request.Context(), orgID, query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

func parseOptionalDecimal(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
