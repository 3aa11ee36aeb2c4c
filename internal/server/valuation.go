package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	valuationdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
)

type upsertValuationRequest struct {
	OperationCode string `json:"operation_code"`
	IncomeTier    string `json:"income_tier"`
	BuybackPrice  string `json:"buyback_price"`
}

// @Summary      Upsert Operation Valuation
// @Description  Set the buy-back price for an operation and income tier
// @Tags         valuations
// @Accept       json
// @Produce      json
// @Param        request body upsertValuationRequest true "Upsert Valuation Request"
// @Success      200  {object}  valuationdomain.OperationValuation
// @Router       /v1/valuations [put]
func (s *Server) UpsertValuation(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req upsertValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	buyback, err := decimal.NewFromString(strings.TrimSpace(req.BuybackPrice))
	if err != nil {
		AbortWithError(c, newValidationError("buyback_price", "invalid_buyback_price", "invalid buyback price"))
		return
	}

	row, err := s.valuationSvc.Upsert(c.Request.Context(), orgID, valuationdomain.UpsertValuationRequest{
		OperationCode: strings.TrimSpace(req.OperationCode),
		IncomeTier:    strings.TrimSpace(req.IncomeTier),
		BuybackPrice:  buyback,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": row})
}

// @Summary      List Operation Valuations
// @Description  List configured buy-back prices, optionally filtered by operation
// @Tags         valuations
// @Produce      json
// @Param        operation_code query string false "Operation Code"
// @Success      200  {object}  []valuationdomain.OperationValuation
// @Router       /v1/valuations [get]
func (s *Server) ListValuations(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.valuationSvc.List(c.Request.Context(), orgID, c.Query("operation_code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
