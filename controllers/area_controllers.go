package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-table-service/events"
	"github.com/yeremiapane/restaurant-table-service/services"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

type AreaController struct {
	Areas *services.AreaService
}

func NewAreaController(areas *services.AreaService) *AreaController {
	return &AreaController{Areas: areas}
}

// GetAllAreas -> list areas in insertion order
func (ac *AreaController) GetAllAreas(c *gin.Context) {
	areas, err := ac.Areas.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of areas", areas)
}

// CreateArea -> register a seating area
func (ac *AreaController) CreateArea(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	area, err := ac.Areas.Add(req.Value, req.Label)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ac.broadcastAreas()
	utils.InfoLogger.Printf("New area registered: %s (%s)", area.Value, area.Label)
	utils.RespondJSON(c, http.StatusCreated, "Area created", area)
}

// DeleteArea -> remove an area; refused while active tables reference it
func (ac *AreaController) DeleteArea(c *gin.Context) {
	value := c.Param("value")

	if err := ac.Areas.Remove(value); err != nil {
		respondServiceError(c, err)
		return
	}

	ac.broadcastAreas()
	utils.InfoLogger.Printf("Area removed: %s", value)
	utils.RespondJSON(c, http.StatusOK, "Area deleted", gin.H{"value": value})
}

func (ac *AreaController) broadcastAreas() {
	if areas, err := ac.Areas.List(); err == nil {
		events.BroadcastAreaUpdate(areas)
	}
}
