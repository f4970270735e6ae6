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

func setupTestDBForTables(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	cache := services.NewQueryCache(services.DefaultQueryCacheConfig())
	ctrl := controllers.NewTableController(db, cache)

	router.GET("/tables/:business_id", ctrl.GetAllTables)
	router.POST("/tables/:business_id", ctrl.CreateTable)
	router.PATCH("/tables/:business_id/:table_id", ctrl.UpdateTable)
	router.PATCH("/tables/:business_id/:table_id/status", ctrl.UpdateTableStatus)
	return router
}

func TestCreateTableDefaults(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	w := postJSON(t, router, "POST", "/tables/1", map[string]interface{}{
		"label":        "T1",
		"section":      "patio",
		"max_capacity": 4,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "available", data["status"])
	assert.Equal(t, true, data["active"])
	assert.Equal(t, float64(1), data["min_capacity"])
}

func TestUpdateTableStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	table := models.Table{BusinessID: 1, Label: "T1", MinCapacity: 1, MaxCapacity: 4, Active: true, Status: "available"}
	db.Create(&table)

	url := fmt.Sprintf("/tables/1/%d/status", table.ID)
	for _, status := range []string{"occupied", "dirty", "available"} {
		w := postJSON(t, router, "PATCH", url, map[string]interface{}{"status": status})
		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Table
		db.First(&got, table.ID)
		assert.Equal(t, status, got.Status)
	}

	w := postJSON(t, router, "PATCH", url, map[string]interface{}{"status": "reserved"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeactivateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	table := models.Table{BusinessID: 1, Label: "T1", MinCapacity: 1, MaxCapacity: 4, Active: true, Status: "available"}
	db.Create(&table)

	w := postJSON(t, router, "PATCH", fmt.Sprintf("/tables/1/%d", table.ID), map[string]interface{}{
		"active":  false,
		"section": "main",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Table
	db.First(&got, table.ID)
	assert.False(t, got.Active)
	assert.Equal(t, "main", got.Section)
	assert.Equal(t, "T1", got.Label, "unspecified fields stay untouched")
}
