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

type MenuCategoryController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewMenuCategoryController(db *gorm.DB, cache *services.QueryCache) *MenuCategoryController {
	return &MenuCategoryController{DB: db, Cache: cache}
}

// GetAllCategories
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	var categories []models.MenuCategory
	if err := mcc.DB.Where("business_id = ?", bizID).Order("sort_order asc, name asc").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// CreateCategory
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	type ReqBody struct {
		Name      string `json:"name" binding:"required"`
		SortOrder int    `json:"sort_order"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{
		BusinessID: bizID,
		Name:       body.Name,
		SortOrder:  body.SortOrder,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := mcc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mcc.Cache.InvalidatePrefix(fmt.Sprintf("menu:%d", bizID))
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	category, ok := mcc.loadCategory(c)
	if !ok {
		return
	}

	type ReqBody struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sort_order"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		category.Name = *body.Name
	}
	if body.SortOrder != nil {
		category.SortOrder = *body.SortOrder
	}
	category.UpdatedAt = time.Now()

	if err := mcc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mcc.Cache.InvalidatePrefix(fmt.Sprintf("menu:%d", category.BusinessID))
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory refuses while menu items still reference the category.
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	category, ok := mcc.loadCategory(c)
	if !ok {
		return
	}

	var itemCount int64
	mcc.DB.Model(&models.MenuItem{}).Where("category_id = ?", category.ID).Count(&itemCount)
	if itemCount > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("category still has %d menu items", itemCount))
		return
	}

	if err := mcc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mcc.Cache.InvalidatePrefix(fmt.Sprintf("menu:%d", category.BusinessID))
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": category.ID})
}

func (mcc *MenuCategoryController) loadCategory(c *gin.Context) (models.MenuCategory, bool) {
	var category models.MenuCategory

	id, err := strconv.Atoi(c.Param("cat_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid category id"))
		return category, false
	}

	if err := mcc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return category, false
	}

	if bizID := businessID(c); bizID != 0 && category.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return category, false
	}
	return category, true
}
