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

type MenuController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewMenuController(db *gorm.DB, cache *services.QueryCache) *MenuController {
	return &MenuController{DB: db, Cache: cache}
}

// GetAllMenuItems -> tenant menu, optionally narrowed to one category
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	cached, err := mc.Cache.Fetch(fmt.Sprintf("menu:%d:all", bizID), func() (interface{}, error) {
		var items []models.MenuItem
		if err := mc.DB.Preload("Category").
			Where("business_id = ?", bizID).
			Order("name asc").
			Find(&items).Error; err != nil {
			return nil, err
		}
		return items, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	items := cached.([]models.MenuItem)

	if catStr := c.Query("category_id"); catStr != "" {
		catID, _ := strconv.Atoi(catStr)
		narrowed := make([]models.MenuItem, 0, len(items))
		for _, item := range items {
			if item.CategoryID == uint(catID) {
				narrowed = append(narrowed, item)
			}
		}
		items = narrowed
	}

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(items, search, func(m models.MenuItem) []string {
		return []string{m.Name, m.Description, m.Category.Name}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of menu items", pageResponse(pageItems, total, page, perPage))
}

// CreateMenuItem
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	type ReqBody struct {
		CategoryID  uint    `json:"category_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gte=0"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.MenuCategory
	if err := mc.DB.First(&category, body.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if category.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return
	}

	item := models.MenuItem{
		BusinessID:  bizID,
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Available:   true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.invalidate(bizID)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// GetMenuItemByID
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	item, ok := mc.loadMenuItem(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenuItem -> partial edit including availability toggle
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	item, ok := mc.loadMenuItem(c)
	if !ok {
		return
	}

	type ReqBody struct {
		CategoryID  *uint    `json:"category_id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Available   *bool    `json:"available"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CategoryID != nil {
		item.CategoryID = *body.CategoryID
	}
	if body.Name != nil {
		item.Name = *body.Name
	}
	if body.Description != nil {
		item.Description = *body.Description
	}
	if body.Price != nil {
		item.Price = *body.Price
	}
	if body.Available != nil {
		item.Available = *body.Available
	}
	item.UpdatedAt = time.Now()

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.invalidate(item.BusinessID)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	item, ok := mc.loadMenuItem(c)
	if !ok {
		return
	}

	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.invalidate(item.BusinessID)
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"menu_item_id": item.ID})
}

func (mc *MenuController) loadMenuItem(c *gin.Context) (models.MenuItem, bool) {
	var item models.MenuItem

	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid menu item id"))
		return item, false
	}

	if err := mc.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return item, false
	}

	if bizID := businessID(c); bizID != 0 && item.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return item, false
	}
	return item, true
}

func (mc *MenuController) invalidate(bizID uint) {
	mc.Cache.InvalidatePrefix(fmt.Sprintf("menu:%d", bizID))
}
