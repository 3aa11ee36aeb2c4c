package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
	obscontext "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/context"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/logger"
	pricingdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	quotedomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/quote/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
	valuationdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
)

// APIError is the wire shape for every non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return e.Code
}

var (
	ErrNotFound           = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrUnauthorized       = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "missing or invalid organization"}
	ErrTooManyRequests    = &APIError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
	ErrServiceUnavailable = &APIError{Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "service unavailable"}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request payload"}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Code: code, Message: message, Field: field}
}

// domainStatus maps service sentinel errors onto HTTP semantics. Validation
// failures are 422, missing rows 404, missing tenant configuration 409.
func domainStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, folderdomain.ErrFolderNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, settingsdomain.ErrSettingsNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, valuationdomain.ErrValuationNotConfigured):
		return http.StatusConflict, true
	case errors.Is(err, folderdomain.ErrInvalidFolderID),
		errors.Is(err, folderdomain.ErrInvalidSurface),
		errors.Is(err, folderdomain.ErrInvalidPropertyType),
		errors.Is(err, folderdomain.ErrInvalidIncomeTier),
		errors.Is(err, catalogdomain.ErrInvalidProductID),
		errors.Is(err, catalogdomain.ErrInvalidCategory),
		errors.Is(err, catalogdomain.ErrInvalidSalePrice),
		errors.Is(err, catalogdomain.ErrInvalidTaxRate),
		errors.Is(err, catalogdomain.ErrInvalidReference),
		errors.Is(err, settingsdomain.ErrInvalidOperationCode),
		errors.Is(err, settingsdomain.ErrInvalidRoundingMode),
		errors.Is(err, settingsdomain.ErrInvalidMinMargin),
		errors.Is(err, settingsdomain.ErrInvalidQuotas),
		errors.Is(err, settingsdomain.ErrInvalidGridRule),
		errors.Is(err, valuationdomain.ErrInvalidBuybackPrice),
		errors.Is(err, valuationdomain.ErrInvalidOperationCode),
		errors.Is(err, quotedomain.ErrInvalidOperationCode),
		errors.Is(err, quotedomain.ErrInvalidProductSelection),
		errors.Is(err, quotedomain.ErrInvalidTargetRAC),
		errors.Is(err, pricingdomain.ErrInvalidLineQuantity),
		errors.Is(err, pricingdomain.ErrInvalidLineUnitPrice),
		errors.Is(err, pricingdomain.ErrInvalidLineTaxRate):
		return http.StatusUnprocessableEntity, true
	}
	return 0, false
}

// AbortWithError renders err as an APIError response and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	if status, ok := domainStatus(err); ok {
		c.AbortWithStatusJSON(status, gin.H{"error": &APIError{
			Status:  status,
			Code:    err.Error(),
			Message: err.Error(),
		}})
		return
	}

	logger.FromContext(c.Request.Context()).Error("unhandled request error",
		zap.Error(err),
		zap.String("request_id", obscontext.RequestIDFromGin(c)),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "internal server error",
	}})
}
