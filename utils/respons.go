package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-table-service/models"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondDomainError keeps the error kind machine-readable: the code rides
// in data so clients switch on it instead of parsing messages.
func RespondDomainError(c *gin.Context, httpStatus int, derr *models.DomainError) {
	c.JSON(httpStatus, JSONResponse{
		Status:  false,
		Message: derr.Message,
		Data:    gin.H{"code": derr.Code},
	})
}
