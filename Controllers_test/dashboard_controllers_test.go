package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/controllers"
	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/services"
	"github.com/bistroboard/bistroboard/utils"
)

func setupTestDBForDashboard(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.Reservation{}, &models.Table{}, &models.Customer{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupDashboardRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	cache := services.NewQueryCache(services.DefaultQueryCacheConfig())
	ctrl := controllers.NewDashboardController(db, cache)

	router.GET("/dashboard/:business_id", ctrl.GetDashboardStats)
	return router
}

func TestDashboardStats(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDashboard(t)
	router := setupDashboardRouter(db)

	// Orders created now land on today's date.
	paid := models.Order{BusinessID: 1, OrderNumber: "ORD-aaaa0001", CustomerName: "A", Status: models.OrderCompleted, PaymentStatus: models.PaymentPaid, Subtotal: 50, Total: 54}
	db.Create(&paid)
	db.Create(&models.OrderItem{OrderID: paid.ID, Name: "Margherita", UnitPrice: 10, Quantity: 5, Modifiers: "[]", LineTotal: 50})

	unpaid := models.Order{BusinessID: 1, OrderNumber: "ORD-aaaa0002", CustomerName: "B", Status: models.OrderPending, PaymentStatus: models.PaymentPending, Subtotal: 20, Total: 21.6}
	db.Create(&unpaid)

	other := models.Order{BusinessID: 2, OrderNumber: "ORD-aaaa0003", CustomerName: "C", Status: models.OrderCompleted, PaymentStatus: models.PaymentPaid, Subtotal: 100, Total: 108}
	db.Create(&other)

	db.Create(&models.Reservation{BusinessID: 1, CustomerName: "D", Date: "2026-09-05", Time: "19:00", PartySize: 2, Status: models.ReservationConfirmed})
	db.Create(&models.Table{BusinessID: 1, Label: "T1", MaxCapacity: 4, Active: true, Status: "available"})
	db.Create(&models.Table{BusinessID: 1, Label: "T2", MaxCapacity: 4, Active: true, Status: "occupied"})
	db.Create(&models.Customer{BusinessID: 1, Name: "Dana"})

	w := postJSON(t, router, "GET", "/dashboard/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})

	// Revenue counts paid orders only, scoped to the tenant.
	assert.InDelta(t, 54.0, data["today_revenue"].(float64), 0.0001)
	assert.Equal(t, float64(2), data["total_orders"])
	assert.Equal(t, float64(2), data["today_orders"])
	assert.Equal(t, float64(1), data["customer_count"])

	orderStats := data["order_stats"].(map[string]interface{})
	assert.Equal(t, float64(1), orderStats["pending"])
	assert.Equal(t, float64(1), orderStats["completed"])

	reservationStats := data["reservation_stats"].(map[string]interface{})
	assert.Equal(t, float64(1), reservationStats["confirmed"])

	tableStats := data["table_stats"].(map[string]interface{})
	assert.Equal(t, float64(1), tableStats["available"])
	assert.Equal(t, float64(1), tableStats["occupied"])
	assert.Equal(t, float64(0), tableStats["dirty"])

	topItems := data["top_items"].([]interface{})
	assert.Len(t, topItems, 1)
	top := topItems[0].(map[string]interface{})
	assert.Equal(t, "Margherita", top["name"])
	assert.Equal(t, float64(5), top["quantity"])

	trend := data["revenue_trend"].([]interface{})
	assert.Len(t, trend, 1)
	point := trend[0].(map[string]interface{})
	assert.InDelta(t, 54.0, point["revenue"].(float64), 0.0001)
	assert.Equal(t, float64(2), point["orders"])
}
