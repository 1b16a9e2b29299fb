// internal/handlers/wine.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/i18n"
	"github.com/smartadega/smartadega-api/internal/services"
	"github.com/smartadega/smartadega-api/internal/utils"
)

type WineHandler struct {
	wineService *services.WineService
}

func NewWineHandler(wineService *services.WineService) *WineHandler {
	return &WineHandler{
		wineService: wineService,
	}
}

// POST /api/wines
func (h *WineHandler) CreateWine(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, apperrors.AuthMissing)
		return
	}

	payload, err := bindPayload(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	wine, err := h.wineService.CreateWine(c.Request.Context(), userID, payload)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, wine)
}

// GET /api/wines
func (h *WineHandler) GetWines(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, apperrors.AuthMissing)
		return
	}

	params, paged := utils.GetPaginationParams(c)
	req := services.ListWinesRequest{}
	if paged {
		req.Offset = params.Offset()
		req.Limit = params.Limit
	}

	wines, total, err := h.wineService.ListWines(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if paged {
		utils.SetPaginationHeaders(c, utils.CreatePaginationResult(total, params))
	}
	c.JSON(http.StatusOK, wines)
}

// GET /api/wines/:id
func (h *WineHandler) GetWine(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, apperrors.AuthMissing)
		return
	}

	// An id that is not a UUID cannot name any wine.
	wineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyWineNotFound)
		return
	}

	wine, err := h.wineService.GetWine(c.Request.Context(), userID, wineID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, wine)
}

// PUT /api/wines/:id
func (h *WineHandler) UpdateWine(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, apperrors.AuthMissing)
		return
	}

	wineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyWineNotFound)
		return
	}

	payload, err := bindPayload(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	wine, err := h.wineService.UpdateWine(c.Request.Context(), userID, wineID, payload)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, wine)
}

// DELETE /api/wines/:id
func (h *WineHandler) DeleteWine(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, apperrors.AuthMissing)
		return
	}

	wineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyWineNotFound)
		return
	}

	if err := h.wineService.DeleteWine(c.Request.Context(), userID, wineID); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyWineDeleted),
	})
}

// bindPayload reads the body as a JSON object. Field checks belong to the
// validator, so nothing is rejected here except a body that is not an object.
func bindPayload(c *gin.Context) (map[string]interface{}, error) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, apperrors.InvalidRequest(i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationBody), err)
	}
	if payload == nil {
		return nil, apperrors.InvalidRequest(i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationBody), nil)
	}
	return payload, nil
}
