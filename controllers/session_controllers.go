package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/services"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

type SessionController struct {
	Ledger *services.UsageLedger
}

func NewSessionController(ledger *services.UsageLedger) *SessionController {
	return &SessionController{Ledger: ledger}
}

// GetActiveSession -> the open session of a table, 404 when none
func (sc *SessionController) GetActiveSession(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	session, err := sc.Ledger.OpenSessionFor(id)
	if err != nil {
		// On a fetch an absent session is a missing resource, not a conflict.
		if err == models.ErrNoOpenSession {
			utils.RespondDomainError(c, http.StatusNotFound, models.ErrNoOpenSession)
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active session", session)
}

// RecordMilestone -> stamp order_placed / food_served / payment_completed
// on the open session; defaults to now when no timestamp is sent
func (sc *SessionController) RecordMilestone(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	var req struct {
		Kind string     `json:"kind" binding:"required"`
		At   *time.Time `json:"at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	session, err := sc.Ledger.RecordMilestone(id, req.Kind, at)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Milestone recorded", session)
}

// UpdateSession -> order/payment collaborator updates on an open session,
// addressed by usage_id; closed sessions are immutable
func (sc *SessionController) UpdateSession(c *gin.Context) {
	usageID := c.Param("usage_id")

	var req struct {
		OrderID            *string          `json:"order_id"`
		CustomerName       *string          `json:"customer_name"`
		CustomerPhone      *string          `json:"customer_phone"`
		TotalOrderAmount   *decimal.Decimal `json:"total_order_amount"`
		TotalPaymentAmount *decimal.Decimal `json:"total_payment_amount"`
		UsageType          *string          `json:"usage_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Ledger.UpdateSession(usageID, services.SessionUpdateInput{
		OrderID:            req.OrderID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		TotalOrderAmount:   req.TotalOrderAmount,
		TotalPaymentAmount: req.TotalPaymentAmount,
		UsageType:          req.UsageType,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session updated", session)
}
