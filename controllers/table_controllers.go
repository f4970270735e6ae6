package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/live"
	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/services"
	"github.com/bistroboard/bistroboard/utils"
)

type TableController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewTableController(db *gorm.DB, cache *services.QueryCache) *TableController {
	return &TableController{DB: db, Cache: cache}
}

// GetAllTables -> tenant floor plan
func (tc *TableController) GetAllTables(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	cached, err := tc.Cache.Fetch(fmt.Sprintf("tables:%d:all", bizID), func() (interface{}, error) {
		var tables []models.Table
		if err := tc.DB.Where("business_id = ?", bizID).Order("label asc").Find(&tables).Error; err != nil {
			return nil, err
		}
		return tables, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tables := cached.([]models.Table)

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(tables, search, func(t models.Table) []string {
		return []string{t.Label, t.Section, t.Status}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of tables", pageResponse(pageItems, total, page, perPage))
}

// CreateTable -> add a table to the floor plan
func (tc *TableController) CreateTable(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	type ReqBody struct {
		Label       string `json:"label" binding:"required"`
		Section     string `json:"section"`
		MinCapacity int    `json:"min_capacity"`
		MaxCapacity int    `json:"max_capacity" binding:"required,gt=0"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	minCap := body.MinCapacity
	if minCap <= 0 {
		minCap = 1
	}

	table := models.Table{
		BusinessID:  bizID,
		Label:       body.Label,
		Section:     body.Section,
		MinCapacity: minCap,
		MaxCapacity: body.MaxCapacity,
		Active:      true,
		Status:      "available",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.invalidate(bizID)
	live.BroadcastTableUpdate(table)

	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// UpdateTable -> edit label, section, capacity or active flag
func (tc *TableController) UpdateTable(c *gin.Context) {
	table, ok := tc.loadTable(c)
	if !ok {
		return
	}

	type ReqBody struct {
		Label       *string `json:"label"`
		Section     *string `json:"section"`
		MinCapacity *int    `json:"min_capacity"`
		MaxCapacity *int    `json:"max_capacity"`
		Active      *bool   `json:"active"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Label != nil {
		table.Label = *body.Label
	}
	if body.Section != nil {
		table.Section = *body.Section
	}
	if body.MinCapacity != nil {
		table.MinCapacity = *body.MinCapacity
	}
	if body.MaxCapacity != nil {
		table.MaxCapacity = *body.MaxCapacity
	}
	if body.Active != nil {
		table.Active = *body.Active
	}
	table.UpdatedAt = time.Now()

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.invalidate(table.BusinessID)
	live.BroadcastTableUpdate(table)

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// UpdateTableStatus -> floor status: available, occupied, dirty
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	table, ok := tc.loadTable(c)
	if !ok {
		return
	}

	type ReqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch body.Status {
	case "available", "occupied", "dirty":
	default:
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidStatus)
		return
	}

	table.Status = body.Status
	table.UpdatedAt = time.Now()
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.invalidate(table.BusinessID)
	live.BroadcastTableUpdate(table)

	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

func (tc *TableController) loadTable(c *gin.Context) (models.Table, bool) {
	var table models.Table

	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table id"))
		return table, false
	}

	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return table, false
	}

	if bizID := businessID(c); bizID != 0 && table.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return table, false
	}
	return table, true
}

func (tc *TableController) invalidate(bizID uint) {
	tc.Cache.InvalidatePrefix(fmt.Sprintf("tables:%d", bizID))
	tc.Cache.InvalidatePrefix(fmt.Sprintf("dashboard:%d", bizID))
}
