package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/services"
	"github.com/bistroboard/bistroboard/utils"
)

type CustomerController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewCustomerController(db *gorm.DB, cache *services.QueryCache) *CustomerController {
	return &CustomerController{DB: db, Cache: cache}
}

// GetAllCustomers -> CRM list with filter and pagination
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	cached, err := cc.Cache.Fetch(fmt.Sprintf("customers:%d:all", bizID), func() (interface{}, error) {
		var customers []models.Customer
		if err := cc.DB.Where("business_id = ?", bizID).Order("name asc").Find(&customers).Error; err != nil {
			return nil, err
		}
		return customers, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	customers := cached.([]models.Customer)

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(customers, search, func(cu models.Customer) []string {
		return []string{cu.Name, derefStr(cu.Email), derefStr(cu.Phone)}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of customers", pageResponse(pageItems, total, page, perPage))
}

// CreateCustomer -> new CRM record
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	type ReqBody struct {
		Name  string  `json:"name" binding:"required"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Notes string  `json:"notes"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer := models.Customer{
		BusinessID: bizID,
		Name:       body.Name,
		Email:      body.Email,
		Phone:      body.Phone,
		Notes:      body.Notes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := cc.DB.Create(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.invalidate(bizID)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

// GetCustomerByID -> single record
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	customer, ok := cc.loadCustomer(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

// UpdateCustomer -> partial edit
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	customer, ok := cc.loadCustomer(c)
	if !ok {
		return
	}

	type ReqBody struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Notes *string `json:"notes"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		customer.Name = *body.Name
	}
	if body.Email != nil {
		customer.Email = body.Email
	}
	if body.Phone != nil {
		customer.Phone = body.Phone
	}
	if body.Notes != nil {
		customer.Notes = *body.Notes
	}
	customer.UpdatedAt = time.Now()

	if err := cc.DB.Save(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.invalidate(customer.BusinessID)
	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

// AdjustPoints -> loyalty point delta (positive or negative); the balance
// never drops below zero.
func (cc *CustomerController) AdjustPoints(c *gin.Context) {
	customer, ok := cc.loadCustomer(c)
	if !ok {
		return
	}

	type ReqBody struct {
		Delta  int    `json:"delta" binding:"required"`
		Reason string `json:"reason"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	balance := customer.LoyaltyPoints + body.Delta
	if balance < 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("insufficient points: balance %d, delta %d", customer.LoyaltyPoints, body.Delta))
		return
	}

	customer.LoyaltyPoints = balance
	customer.UpdatedAt = time.Now()
	if err := cc.DB.Save(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if body.Reason != "" {
		utils.InfoLogger.Printf("Points adjusted for customer %d: %+d (%s)", customer.ID, body.Delta, body.Reason)
	}

	cc.invalidate(customer.BusinessID)
	utils.RespondJSON(c, http.StatusOK, "Points adjusted", customer)
}

// DeleteCustomer -> remove CRM record
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	customer, ok := cc.loadCustomer(c)
	if !ok {
		return
	}

	if err := cc.DB.Delete(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.invalidate(customer.BusinessID)
	utils.RespondJSON(c, http.StatusOK, "Customer deleted", gin.H{"customer_id": customer.ID})
}

func (cc *CustomerController) loadCustomer(c *gin.Context) (models.Customer, bool) {
	var customer models.Customer

	id, err := strconv.Atoi(c.Param("customer_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid customer id"))
		return customer, false
	}

	if err := cc.DB.First(&customer, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return customer, false
	}

	if bizID := businessID(c); bizID != 0 && customer.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return customer, false
	}
	return customer, true
}

func (cc *CustomerController) invalidate(bizID uint) {
	cc.Cache.InvalidatePrefix(fmt.Sprintf("customers:%d", bizID))
}
