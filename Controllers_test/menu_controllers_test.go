package Controllers_test

import (
	"fmt"
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

func setupTestDBForMenu(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.MenuCategory{}, &models.MenuItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	cache := services.NewQueryCache(services.DefaultQueryCacheConfig())
	menuCtrl := controllers.NewMenuController(db, cache)
	catCtrl := controllers.NewMenuCategoryController(db, cache)

	router.GET("/menu/:business_id", menuCtrl.GetAllMenuItems)
	router.POST("/menu/:business_id", menuCtrl.CreateMenuItem)
	router.PATCH("/menu/:business_id/items/:item_id", menuCtrl.UpdateMenuItem)
	router.DELETE("/menu/:business_id/items/:item_id", menuCtrl.DeleteMenuItem)
	router.POST("/menu/:business_id/categories", catCtrl.CreateCategory)
	router.DELETE("/menu/:business_id/categories/:cat_id", catCtrl.DeleteCategory)
	return router
}

func TestCreateMenuItemAndList(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	w := postJSON(t, router, "POST", "/menu/1/categories", map[string]interface{}{
		"name": "Mains",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	catID := int(resp["data"].(map[string]interface{})["id"].(float64))

	w = postJSON(t, router, "POST", "/menu/1", map[string]interface{}{
		"category_id": catID,
		"name":        "Margherita",
		"description": "tomato, mozzarella, basil",
		"price":       10.50,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// The new item shows up on the next list read.
	w = postJSON(t, router, "GET", "/menu/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])

	w = postJSON(t, router, "GET", fmt.Sprintf("/menu/1?category_id=%d", catID), nil)
	resp = decodeEnvelope(t, w)
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["total"])

	w = postJSON(t, router, "GET", "/menu/1?category_id=999", nil)
	resp = decodeEnvelope(t, w)
	assert.Equal(t, float64(0), resp["data"].(map[string]interface{})["total"])
}

func TestCreateMenuItemRejectsForeignCategory(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	foreign := models.MenuCategory{BusinessID: 2, Name: "Theirs"}
	db.Create(&foreign)

	w := postJSON(t, router, "POST", "/menu/1", map[string]interface{}{
		"category_id": foreign.ID,
		"name":        "Sneaky",
		"price":       1.00,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryGuardedByItems(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	cat := models.MenuCategory{BusinessID: 1, Name: "Mains"}
	db.Create(&cat)
	item := models.MenuItem{BusinessID: 1, CategoryID: cat.ID, Name: "Margherita", Price: 10.50, Available: true}
	db.Create(&item)

	w := postJSON(t, router, "DELETE", fmt.Sprintf("/menu/1/categories/%d", cat.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, router, "DELETE", fmt.Sprintf("/menu/1/items/%d", item.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "DELETE", fmt.Sprintf("/menu/1/categories/%d", cat.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestToggleAvailability(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	cat := models.MenuCategory{BusinessID: 1, Name: "Mains"}
	db.Create(&cat)
	item := models.MenuItem{BusinessID: 1, CategoryID: cat.ID, Name: "Margherita", Price: 10.50, Available: true}
	db.Create(&item)

	w := postJSON(t, router, "PATCH", fmt.Sprintf("/menu/1/items/%d", item.ID), map[string]interface{}{
		"available": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.MenuItem
	db.First(&got, item.ID)
	assert.False(t, got.Available)
	assert.Equal(t, "Margherita", got.Name)
}
