package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/services"
	"github.com/bistroboard/bistroboard/utils"
)

type DashboardController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewDashboardController(db *gorm.DB, cache *services.QueryCache) *DashboardController {
	return &DashboardController{DB: db, Cache: cache}
}

// DashboardStats is the precomputed aggregate bundle the console renders
// as-is.
type DashboardStats struct {
	TodayRevenue  float64 `json:"today_revenue"`
	RangeRevenue  float64 `json:"range_revenue"`
	TotalOrders   int64   `json:"total_orders"`
	TodayOrders   int64   `json:"today_orders"`
	CustomerCount int64   `json:"customer_count"`

	OrderStats struct {
		Pending   int64 `json:"pending"`
		Confirmed int64 `json:"confirmed"`
		Preparing int64 `json:"preparing"`
		Ready     int64 `json:"ready"`
		Completed int64 `json:"completed"`
		Cancelled int64 `json:"cancelled"`
	} `json:"order_stats"`

	ReservationStats struct {
		Pending   int64 `json:"pending"`
		Confirmed int64 `json:"confirmed"`
		Seated    int64 `json:"seated"`
		Completed int64 `json:"completed"`
		Cancelled int64 `json:"cancelled"`
	} `json:"reservation_stats"`

	TableStats struct {
		Available int64 `json:"available"`
		Occupied  int64 `json:"occupied"`
		Dirty     int64 `json:"dirty"`
	} `json:"table_stats"`

	RevenueTrend []TrendPoint `json:"revenue_trend"`
	TopItems     []TopItem    `json:"top_items"`
}

type TrendPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type TopItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// GetDashboardStats -> aggregate bundle for the date range, cached per
// tenant and range until an order/reservation/table mutation invalidates it.
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	today := time.Now().Format("2006-01-02")
	from := c.DefaultQuery("from", time.Now().AddDate(0, 0, -6).Format("2006-01-02"))
	to := c.DefaultQuery("to", today)

	key := fmt.Sprintf("dashboard:%d:%s:%s", bizID, from, to)
	cached, err := dc.Cache.Fetch(key, func() (interface{}, error) {
		return dc.computeStats(bizID, today, from, to)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", cached)
}

func (dc *DashboardController) computeStats(bizID uint, today, from, to string) (*DashboardStats, error) {
	stats := &DashboardStats{}

	orders := func() *gorm.DB {
		return dc.DB.Model(&models.Order{}).Where("business_id = ?", bizID)
	}

	if err := orders().Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	orders().Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)

	// Revenue counts paid orders only.
	orders().Where("payment_status = ? AND DATE(created_at) = ?", models.PaymentPaid, today).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.TodayRevenue)
	orders().Where("payment_status = ? AND DATE(created_at) BETWEEN ? AND ?", models.PaymentPaid, from, to).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.RangeRevenue)

	orders().Where("status = ?", models.OrderPending).Count(&stats.OrderStats.Pending)
	orders().Where("status = ?", models.OrderConfirmed).Count(&stats.OrderStats.Confirmed)
	orders().Where("status = ?", models.OrderPreparing).Count(&stats.OrderStats.Preparing)
	orders().Where("status = ?", models.OrderReady).Count(&stats.OrderStats.Ready)
	orders().Where("status = ?", models.OrderCompleted).Count(&stats.OrderStats.Completed)
	orders().Where("status = ?", models.OrderCancelled).Count(&stats.OrderStats.Cancelled)

	reservations := func() *gorm.DB {
		return dc.DB.Model(&models.Reservation{}).Where("business_id = ?", bizID)
	}
	reservations().Where("status = ?", models.ReservationPending).Count(&stats.ReservationStats.Pending)
	reservations().Where("status = ?", models.ReservationConfirmed).Count(&stats.ReservationStats.Confirmed)
	reservations().Where("status = ?", models.ReservationSeated).Count(&stats.ReservationStats.Seated)
	reservations().Where("status = ?", models.ReservationCompleted).Count(&stats.ReservationStats.Completed)
	reservations().Where("status = ?", models.ReservationCancelled).Count(&stats.ReservationStats.Cancelled)

	tables := func() *gorm.DB {
		return dc.DB.Model(&models.Table{}).Where("business_id = ?", bizID)
	}
	tables().Where("status = ?", "available").Count(&stats.TableStats.Available)
	tables().Where("status = ?", "occupied").Count(&stats.TableStats.Occupied)
	tables().Where("status = ?", "dirty").Count(&stats.TableStats.Dirty)

	dc.DB.Model(&models.Customer{}).Where("business_id = ?", bizID).Count(&stats.CustomerCount)

	if err := dc.DB.Raw(`
		SELECT DATE(created_at) as date,
		       COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN total ELSE 0 END), 0) as revenue,
		       COUNT(*) as orders
		FROM orders
		WHERE business_id = ? AND DATE(created_at) BETWEEN ? AND ?
		GROUP BY DATE(created_at)
		ORDER BY date ASC
	`, bizID, from, to).Scan(&stats.RevenueTrend).Error; err != nil {
		return nil, err
	}

	if err := dc.DB.Raw(`
		SELECT oi.name as name, SUM(oi.quantity) as quantity, SUM(oi.line_total) as revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.business_id = ? AND o.status != 'cancelled'
		GROUP BY oi.name
		ORDER BY quantity DESC
		LIMIT 10
	`, bizID).Scan(&stats.TopItems).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
