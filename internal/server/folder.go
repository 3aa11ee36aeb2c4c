package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
)

type createFolderRequest struct {
	CustomerName  string  `json:"customer_name"`
	SurfaceM2     float64 `json:"surface_m2"`
	PropertyType  string  `json:"property_type"`
	ClimateZone   string  `json:"climate_zone"`
	IncomeTier    string  `json:"income_tier"`
	EmitterRegime string  `json:"emitter_regime"`
}

// @Summary      Create Folder
// @Description  Open a renovation folder holding the dwelling and household facts
// @Tags         folders
// @Accept       json
// @Produce      json
// @Param        request body createFolderRequest true "Create Folder Request"
// @Success      200  {object}  folderdomain.Folder
// @Router       /v1/folders [post]
func (s *Server) CreateFolder(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	folder, err := s.folderSvc.Create(c.Request.Context(), orgID, folderdomain.CreateFolderRequest{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		SurfaceM2:     req.SurfaceM2,
		PropertyType:  folderdomain.PropertyType(strings.TrimSpace(req.PropertyType)),
		ClimateZone:   folderdomain.ClimateZone(strings.TrimSpace(req.ClimateZone)),
		IncomeTier:    folderdomain.IncomeTier(strings.TrimSpace(req.IncomeTier)),
		EmitterRegime: folderdomain.EmitterRegime(strings.TrimSpace(req.EmitterRegime)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": folder})
}

// @Summary      Get Folder
// @Description  Fetch a renovation folder by id
// @Tags         folders
// @Produce      json
// @Param        id path string true "Folder ID"
// @Success      200  {object}  folderdomain.Folder
// @Router       /v1/folders/{id} [get]
func (s *Server) GetFolder(c *gin.Context) {
	orgID, err := orgIDFromGin(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	folder, err := s.folderSvc.Get(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": folder})
}
