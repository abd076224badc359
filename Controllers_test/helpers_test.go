package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/controllers"
	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/services"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

// setupTestDB opens a named in-memory SQLite database and migrates the core
// models plus a seeded "indoor" area.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.AreaOption{},
		&models.Table{},
		&models.UsageSession{},
		&models.QRBinding{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := db.Create(&models.AreaOption{Value: "indoor", Label: "Indoor"}).Error; err != nil {
		t.Fatalf("failed to seed area: %v", err)
	}
	return db
}

// setupRouter wires the controllers onto a bare test router, without the
// auth middleware; handler behavior is what is under test here.
func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	ledger := services.NewUsageLedger(db)
	tableSvc := services.NewTableService(db, ledger)
	tableCtrl := controllers.NewTableController(tableSvc, ledger)
	sessionCtrl := controllers.NewSessionController(ledger)
	areaCtrl := controllers.NewAreaController(services.NewAreaService(db))
	qrCtrl := controllers.NewQRController(services.NewQRService(db))

	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/stats", tableCtrl.GetTableStats)
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	r.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	r.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	r.GET("/tables/:table_id/history", tableCtrl.GetTableHistory)
	r.GET("/tables/:table_id/session", sessionCtrl.GetActiveSession)
	r.POST("/tables/:table_id/session/milestones", sessionCtrl.RecordMilestone)
	r.PATCH("/sessions/:usage_id", sessionCtrl.UpdateSession)
	r.GET("/areas", areaCtrl.GetAllAreas)
	r.POST("/areas", areaCtrl.CreateArea)
	r.DELETE("/areas/:value", areaCtrl.DeleteArea)
	r.POST("/tables/:table_id/qr", qrCtrl.GetOrCreateQR)
	r.DELETE("/tables/:table_id/qr", qrCtrl.RevokeQR)
	r.GET("/qr/:token", qrCtrl.ResolveQR)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewBuffer(payload)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

// errorCode digs the domain error code out of the response envelope.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeResponse(t, w)
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := data["code"].(string)
	return code
}
