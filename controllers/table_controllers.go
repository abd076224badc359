package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-table-service/events"
	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/services"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

type TableController struct {
	Tables *services.TableService
	Ledger *services.UsageLedger
}

func NewTableController(tables *services.TableService, ledger *services.UsageLedger) *TableController {
	return &TableController{Tables: tables, Ledger: ledger}
}

func paramTableID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err != nil {
		utils.RespondDomainError(c, http.StatusNotFound, models.ErrTableNotFound)
		return 0, false
	}
	return uint(id), true
}

// CreateTable -> register a new physical table, status starts at available
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber         string  `json:"table_number" binding:"required"`
		Capacity            int     `json:"capacity" binding:"required"`
		Area                string  `json:"area" binding:"required"`
		LocationDescription *string `json:"location_description"`
		Notes               *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Create(services.CreateTableInput{
		TableNumber:         req.TableNumber,
		Capacity:            req.Capacity,
		Area:                req.Area,
		LocationDescription: req.LocationDescription,
		Notes:               req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastTableCreate(*table)
	tc.broadcastStats()

	utils.InfoLogger.Printf("New table created: %s (area=%s)", table.TableNumber, table.Area)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> list tables, optional ?status= ?area= ?q= filters
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List(services.TableFilter{
		Status: c.Query("status"),
		Area:   c.Query("area"),
		Query:  c.Query("q"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableStats -> table counts by status and by area
func (tc *TableController) GetTableStats(c *gin.Context) {
	stats, err := tc.Tables.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table stats", stats)
}

// GetTableByID -> detail of one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}
	table, err := tc.Tables.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> partial administrative edit (not status; see UpdateTableStatus)
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	var req struct {
		TableNumber         *string `json:"table_number"`
		Capacity            *int    `json:"capacity"`
		Area                *string `json:"area"`
		LocationDescription *string `json:"location_description"`
		Notes               *string `json:"notes"`
		IsActive            *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Update(id, services.UpdateTableInput{
		TableNumber:         req.TableNumber,
		Capacity:            req.Capacity,
		Area:                req.Area,
		LocationDescription: req.LocationDescription,
		Notes:               req.Notes,
		IsActive:            req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastTableUpdate(*table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> hard delete; refused while a session is open
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	if err := tc.Tables.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastTableDelete(id)
	tc.broadcastStats()

	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}

// UpdateTableStatus -> run one state machine transition
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	var req struct {
		Status        string  `json:"status" binding:"required"`
		GuestCount    int     `json:"guest_count"`
		Notes         *string `json:"notes"`
		CustomerName  *string `json:"customer_name"`
		CustomerPhone *string `json:"customer_phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target, valid := models.ParseTableStatus(req.Status)
	if !valid {
		utils.RespondDomainError(c, http.StatusBadRequest, models.ErrInvalidTransition)
		return
	}

	input := services.TransitionInput{
		GuestCount:    req.GuestCount,
		Notes:         req.Notes,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}
	// The acting staff member becomes the assigned waiter on seat.
	if name, exists := c.Get("user_name"); exists {
		if s, ok := name.(string); ok && s != "" {
			input.WaiterAssigned = &s
		}
	}

	table, session, err := tc.Tables.RequestTransition(id, target, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastTableUpdate(*table)
	if session != nil {
		if table.Status == models.StatusOccupied {
			events.BroadcastSessionOpen(*session)
		} else {
			events.BroadcastSessionClose(*session)
		}
	}
	tc.broadcastStats()

	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// GetTableHistory -> paginated usage sessions, newest first
func (tc *TableController) GetTableHistory(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}
	if _, err := tc.Tables.Get(id); err != nil {
		respondServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	sessions, total, err := tc.Ledger.History(id, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Usage history", gin.H{
		"sessions":  sessions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (tc *TableController) broadcastStats() {
	if stats, err := tc.Tables.Stats(); err == nil {
		events.BroadcastStats(stats)
	}
}
