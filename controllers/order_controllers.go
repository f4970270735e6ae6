package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/live"
	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/services"
	"github.com/bistroboard/bistroboard/utils"
)

type OrderController struct {
	DB      *gorm.DB
	Cache   *services.QueryCache
	Gateway *services.PaymentGateway
}

func NewOrderController(db *gorm.DB, cache *services.QueryCache, gateway *services.PaymentGateway) *OrderController {
	return &OrderController{DB: db, Cache: cache, Gateway: gateway}
}

func orderListKey(businessID uint) string {
	return fmt.Sprintf("orders:%d:all", businessID)
}

// GetAllOrders -> list orders with items, filtered and paginated client-style:
// the full tenant list is cached, derived views are recomputed per request.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	cached, err := oc.Cache.Fetch(orderListKey(bizID), func() (interface{}, error) {
		var orders []models.Order
		if err := oc.DB.Preload("OrderItems").Preload("Table").
			Where("business_id = ?", bizID).
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			return nil, err
		}
		return orders, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	orders := cached.([]models.Order)

	search, page, perPage := listParams(c)
	if status := c.Query("status"); status != "" {
		narrowed := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if string(o.Status) == status {
				narrowed = append(narrowed, o)
			}
		}
		orders = narrowed
	}

	filtered := utils.FilterRows(orders, search, func(o models.Order) []string {
		return []string{o.OrderNumber, o.CustomerName, derefStr(o.CustomerEmail), derefStr(o.CustomerPhone), string(o.Status), string(o.OrderType)}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of orders", pageResponse(pageItems, total, page, perPage))
}

// CreateOrder -> staff submission or online intake (source=online).
func (oc *OrderController) CreateOrder(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	type ItemReq struct {
		MenuItemID *uint    `json:"menu_item_id"`
		Name       string   `json:"name"`
		UnitPrice  *float64 `json:"unit_price"`
		Quantity   int      `json:"quantity" binding:"required,gt=0"`
		Modifiers  []string `json:"modifiers"`
	}

	type ReqBody struct {
		OrderType           string  `json:"order_type"`
		CustomerName        string  `json:"customer_name" binding:"required"`
		CustomerEmail       *string `json:"customer_email"`
		CustomerPhone       *string `json:"customer_phone"`
		TableID             *uint   `json:"table_id"`
		Tip                 float64 `json:"tip"`
		Discount            float64 `json:"discount"`
		Source              string  `json:"source"`
		SpecialInstructions string  `json:"special_instructions"`

		Items []ItemReq `json:"items" binding:"required,min=1"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orderType := models.OrderType(body.OrderType)
	if orderType == "" {
		orderType = models.OrderTypeDineIn
	}
	source := body.Source
	if source == "" {
		source = "pos"
	}

	order := models.Order{
		BusinessID:          bizID,
		OrderNumber:         models.NewOrderNumber(),
		OrderType:           orderType,
		CustomerName:        body.CustomerName,
		CustomerEmail:       body.CustomerEmail,
		CustomerPhone:       body.CustomerPhone,
		TableID:             body.TableID,
		Tip:                 body.Tip,
		Discount:            body.Discount,
		Status:              models.OrderPending,
		PaymentStatus:       models.PaymentPending,
		Source:              source,
		SpecialInstructions: body.SpecialInstructions,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var subtotal float64
	for _, item := range body.Items {
		name := item.Name
		var unitPrice float64

		if item.MenuItemID != nil {
			var menuItem models.MenuItem
			if err := oc.DB.First(&menuItem, *item.MenuItemID).Error; err != nil {
				continue
			}
			name = menuItem.Name
			unitPrice = menuItem.Price
		} else if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		if name == "" {
			continue
		}

		modifiers := "[]"
		if len(item.Modifiers) > 0 {
			if raw, err := json.Marshal(item.Modifiers); err == nil {
				modifiers = string(raw)
			}
		}

		lineTotal := unitPrice * float64(item.Quantity)
		subtotal += lineTotal

		orderItem := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: item.MenuItemID,
			Name:       name,
			UnitPrice:  unitPrice,
			Quantity:   item.Quantity,
			Modifiers:  modifiers,
			LineTotal:  lineTotal,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		oc.DB.Create(&orderItem)
	}

	order.Subtotal = subtotal
	order.Tax = subtotal * taxRate()
	order.Total = order.ComputeTotal()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.invalidate(bizID)
	live.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> single order with items
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// AdvanceOrderStatus moves the order to its single next status. Terminal
// statuses have no successor and respond 409.
func (oc *OrderController) AdvanceOrderStatus(c *gin.Context) {
	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	next, hasNext := models.NextOrderStatus(order.Status)
	if !hasNext {
		utils.RespondError(c, http.StatusConflict, ErrAlreadyTerminal)
		return
	}

	order.Status = next
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.invalidate(order.BusinessID)
	live.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Order %s", next), order)
}

// CancelOrder -> terminal, one-way, with an optional reason.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	if !models.CanCancelOrder(order.Status) {
		utils.RespondError(c, http.StatusConflict, ErrCancelNotAllowed)
		return
	}

	type ReqBody struct {
		Reason string `json:"reason"`
	}
	var body ReqBody
	_ = c.ShouldBindJSON(&body)

	order.Status = models.OrderCancelled
	if body.Reason != "" {
		order.CancellationReason = &body.Reason
	}
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.invalidate(order.BusinessID)
	live.BroadcastOrderUpdate(order)
	live.BroadcastStaffNotification(fmt.Sprintf("Order %s cancelled", order.OrderNumber))

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// SetPaymentStatus mutates the independent payment axis. The one coupling:
// a cancelled order cannot be marked paid.
func (oc *OrderController) SetPaymentStatus(c *gin.Context) {
	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	type ReqBody struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment := models.PaymentStatus(body.PaymentStatus)
	if !models.ValidPaymentStatus(payment) {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidStatus)
		return
	}
	if !models.CanSetPaymentStatus(order.Status, payment) {
		utils.RespondError(c, http.StatusConflict, ErrPaymentNotAllowed)
		return
	}

	order.PaymentStatus = payment
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.invalidate(order.BusinessID)
	live.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, "Payment status updated", order)
}

// ChargeQRIS requests a gateway QR charge for an online order.
func (oc *OrderController) ChargeQRIS(c *gin.Context) {
	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	if !oc.Gateway.Configured() {
		utils.RespondError(c, http.StatusServiceUnavailable, ErrGatewayUnavailable)
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("order is already paid"))
		return
	}

	ref, qrURL, err := oc.Gateway.ChargeQRIS(&order)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	order.PaymentRef = &ref
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.invalidate(order.BusinessID)

	utils.RespondJSON(c, http.StatusOK, "Charge created", gin.H{
		"order_number": order.OrderNumber,
		"reference":    ref,
		"qr_url":       qrURL,
	})
}

// HandlePaymentCallback receives gateway notifications for online charges.
func (oc *OrderController) HandlePaymentCallback(c *gin.Context) {
	var notif struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		TransactionStatus string `json:"transaction_status"`
	}
	if err := c.ShouldBindJSON(&notif); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !oc.Gateway.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("invalid notification signature"))
		return
	}

	payment, known := services.MapTransactionStatus(notif.TransactionStatus)
	if !known {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown transaction status %q", notif.TransactionStatus))
		return
	}

	var order models.Order
	if err := oc.DB.Where("order_number = ?", notif.OrderID).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if models.CanSetPaymentStatus(order.Status, payment) {
		order.PaymentStatus = payment
		order.UpdatedAt = time.Now()
		if err := oc.DB.Save(&order).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		oc.invalidate(order.BusinessID)
		live.BroadcastOrderUpdate(order)
	}

	utils.RespondJSON(c, http.StatusOK, "Notification processed", gin.H{
		"order_number":   order.OrderNumber,
		"payment_status": order.PaymentStatus,
	})
}

func (oc *OrderController) loadOrder(c *gin.Context) (models.Order, bool) {
	var order models.Order

	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order id"))
		return order, false
	}

	if err := oc.DB.Preload("OrderItems").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return order, false
	}

	if bizID := businessID(c); bizID != 0 && order.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return order, false
	}
	return order, true
}

// invalidate drops the cached order lists and the dashboard aggregates for
// the tenant before the mutation response goes out.
func (oc *OrderController) invalidate(bizID uint) {
	oc.Cache.InvalidatePrefix(fmt.Sprintf("orders:%d", bizID))
	oc.Cache.InvalidatePrefix(fmt.Sprintf("dashboard:%d", bizID))
}

func taxRate() float64 {
	if raw := os.Getenv("TAX_RATE"); raw != "" {
		if rate, err := strconv.ParseFloat(raw, 64); err == nil && rate >= 0 {
			return rate
		}
	}
	return 0.08
}
