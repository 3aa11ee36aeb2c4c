package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

// @Summary      Get Module Settings
// @Description  Resolve the tenant's pricing configuration for an operation, creating defaults on first read
// @Tags         settings
// @Produce      json
// @Param        operation_code path string true "Operation Code"
// @Success      200  {object}  settingsdomain.ModuleSettings
// @Router       /v1/settings/{operation_code} [get]
func (s *Server) GetSettings(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	operationCode := strings.TrimSpace(c.Param("operation_code"))
	if operationCode == "" {
		AbortWithError(c, newValidationError("operation_code", "invalid_operation_code", "operation code is required"))
		return
	}

	settings, err := s.settingsSvc.GetOrCreate(c.Request.Context(), orgID, operationCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// @Summary      Update Module Settings
// @Description  Patch the tenant's pricing configuration for an operation
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        operation_code path string true "Operation Code"
// @Param        request body settingsdomain.UpdateSettingsRequest true "Update Settings Request"
// @Success      200  {object}  settingsdomain.ModuleSettings
// @Router       /v1/settings/{operation_code} [put]
func (s *Server) UpdateSettings(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	operationCode := strings.TrimSpace(c.Param("operation_code"))
	if operationCode == "" {
		AbortWithError(c, newValidationError("operation_code", "invalid_operation_code", "operation code is required"))
		return
	}

	var req settingsdomain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settings, err := s.settingsSvc.Update(c.Request.Context(), orgID, operationCode, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}
