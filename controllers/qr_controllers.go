package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-table-service/services"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

type QRController struct {
	QR *services.QRService
}

func NewQRController(qr *services.QRService) *QRController {
	return &QRController{QR: qr}
}

// GetOrCreateQR -> hand back the table's token, minting one on first call
func (qc *QRController) GetOrCreateQR(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	binding, err := qc.QR.GetOrCreate(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "QR token", binding)
}

// RegenerateQR -> rotate the token, invalidating printed stickers
func (qc *QRController) RegenerateQR(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	binding, err := qc.QR.Regenerate(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("QR token regenerated for table %d", id)
	utils.RespondJSON(c, http.StatusOK, "QR token regenerated", binding)
}

// RevokeQR -> drop the table's token so the printed sticker stops resolving,
// without touching the table itself
func (qc *QRController) RevokeQR(c *gin.Context) {
	id, ok := paramTableID(c)
	if !ok {
		return
	}

	if err := qc.QR.Revoke(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("QR token revoked for table %d", id)
	utils.RespondJSON(c, http.StatusOK, "QR token revoked", gin.H{"table_id": id})
}

// ResolveQR -> customer-facing: token to table, no auth
func (qc *QRController) ResolveQR(c *gin.Context) {
	token := c.Param("token")

	table, err := qc.QR.Resolve(token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table resolved", table)
}
