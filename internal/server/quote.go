package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	quotedomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/quote/domain"
)

type simulateQuoteRequest struct {
	OperationCode string   `json:"operation_code"`
	FolderID      string   `json:"folder_id"`
	ProductIDs    []string `json:"product_ids"`
	TargetRAC     *string  `json:"target_rac,omitempty"`
}

// @Summary      Simulate Quote
// @Description  Price a quote for a renovation folder under the tenant's pricing configuration
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body simulateQuoteRequest true "Simulate Quote Request"
// @Success      200  {object}  pricingdomain.QuotePreview
// @Router       /v1/quotes/simulate [post]
func (s *Server) SimulateQuote(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req simulateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var targetRAC *decimal.Decimal
	if req.TargetRAC != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*req.TargetRAC))
		if err != nil {
			AbortWithError(c, newValidationError("target_rac", "invalid_target_rac", "invalid target rac"))
			return
		}
		targetRAC = &parsed
	}

	preview, err := s.quoteSvc.Simulate(c.Request.Context(), orgID, quotedomain.SimulateRequest{
		OperationCode: strings.TrimSpace(req.OperationCode),
		FolderID:      strings.TrimSpace(req.FolderID),
		ProductIDs:    req.ProductIDs,
		TargetRAC:     targetRAC,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": preview})
}
