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

func setupTestDBForReservations(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Reservation{}, &models.Table{}, &models.BusinessHour{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupReservationRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	cache := services.NewQueryCache(services.DefaultQueryCacheConfig())
	ctrl := controllers.NewReservationController(db, cache, services.NewAvailabilityService(db))

	router.GET("/reservations/:business_id", ctrl.GetAllReservations)
	router.POST("/reservations/:business_id", ctrl.CreateReservation)
	router.GET("/reservations/:business_id/availability", ctrl.GetAvailability)
	router.GET("/reservations/:business_id/:reservation_id", ctrl.GetReservationByID)
	router.POST("/reservations/:business_id/:reservation_id/advance", ctrl.AdvanceReservationStatus)
	router.POST("/reservations/:business_id/:reservation_id/cancel", ctrl.CancelReservation)
	router.PATCH("/reservations/:business_id/:reservation_id/table", ctrl.AssignTable)
	router.PATCH("/reservations/:business_id/:reservation_id/notes", ctrl.UpdateNotes)
	return router
}

func TestCreateReservationDefaults(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	w := postJSON(t, router, "POST", "/reservations/1", map[string]interface{}{
		"customer_name": "Dana",
		"date":          "2026-09-05",
		"time":          "19:00",
		"party_size":    4,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "no_preference", data["seating_preference"])
	assert.Equal(t, float64(90), data["duration_minutes"])
	assert.Equal(t, "staff", data["source"])
}

func TestAdvanceReservationThroughLifecycle(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	r := models.Reservation{BusinessID: 1, CustomerName: "Dana", Date: "2026-09-05", Time: "19:00", PartySize: 4, Status: models.ReservationPending}
	db.Create(&r)

	url := fmt.Sprintf("/reservations/1/%d/advance", r.ID)
	for _, expected := range []string{"confirmed", "seated", "completed"} {
		w := postJSON(t, router, "POST", url, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decodeEnvelope(t, w)
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, expected, data["status"])
	}

	w := postJSON(t, router, "POST", url, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelReservationAppendsReasonToNotes(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	r := models.Reservation{BusinessID: 1, CustomerName: "Dana", Date: "2026-09-05", Time: "19:00", PartySize: 4, Status: models.ReservationConfirmed, InternalNotes: "VIP, window seat"}
	db.Create(&r)

	w := postJSON(t, router, "POST", fmt.Sprintf("/reservations/1/%d/cancel", r.ID), map[string]interface{}{
		"reason": "guest called to cancel",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Reservation
	db.First(&got, r.ID)
	assert.Equal(t, models.ReservationCancelled, got.Status)
	assert.Equal(t, "VIP, window seat\nCancelled: guest called to cancel", got.InternalNotes)

	w = postJSON(t, router, "POST", fmt.Sprintf("/reservations/1/%d/cancel", r.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignTableIndependentOfStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	table := models.Table{BusinessID: 1, Label: "T5", MaxCapacity: 6, Active: true, Status: "available"}
	db.Create(&table)
	foreign := models.Table{BusinessID: 2, Label: "X1", MaxCapacity: 6, Active: true, Status: "available"}
	db.Create(&foreign)

	r := models.Reservation{BusinessID: 1, CustomerName: "Dana", Date: "2026-09-05", Time: "19:00", PartySize: 4, Status: models.ReservationSeated}
	db.Create(&r)

	url := fmt.Sprintf("/reservations/1/%d/table", r.ID)
	w := postJSON(t, router, "PATCH", url, map[string]interface{}{"table_id": table.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Reservation
	db.First(&got, r.ID)
	assert.NotNil(t, got.TableID)
	assert.Equal(t, table.ID, *got.TableID)
	assert.Equal(t, models.ReservationSeated, got.Status)

	// Another tenant's table is invisible here.
	w = postJSON(t, router, "PATCH", url, map[string]interface{}{"table_id": foreign.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Clearing the assignment is allowed.
	w = postJSON(t, router, "PATCH", url, map[string]interface{}{"table_id": nil})
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&got, r.ID)
	assert.Nil(t, got.TableID)
}

func TestUpdateInternalNotes(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	r := models.Reservation{BusinessID: 1, CustomerName: "Dana", Date: "2026-09-05", Time: "19:00", PartySize: 4, Status: models.ReservationCompleted}
	db.Create(&r)

	// Notes stay editable even after the reservation is terminal.
	w := postJSON(t, router, "PATCH", fmt.Sprintf("/reservations/1/%d/notes", r.ID), map[string]interface{}{
		"internal_notes": "left a great review",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Reservation
	db.First(&got, r.ID)
	assert.Equal(t, "left a great review", got.InternalNotes)
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	// No tables, no hours: the static fallback list comes back.
	w := postJSON(t, router, "GET", "/reservations/1/availability?date=2026-09-05&party_size=6", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	slots := data["slots"].([]interface{})
	assert.Len(t, slots, len(services.FallbackSlots))
	assert.Equal(t, "11:00", slots[0])
	assert.Equal(t, "21:30", slots[len(slots)-1])

	// date is mandatory.
	w = postJSON(t, router, "GET", "/reservations/1/availability", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "GET", "/reservations/1/availability?date=2026-09-05&party_size=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationListNarrowing(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	db.Create(&models.Reservation{BusinessID: 1, CustomerName: "Dana", Date: "2026-09-05", Time: "19:00", PartySize: 4, Status: models.ReservationConfirmed})
	db.Create(&models.Reservation{BusinessID: 1, CustomerName: "Evan", Date: "2026-09-05", Time: "20:00", PartySize: 2, Status: models.ReservationPending})
	db.Create(&models.Reservation{BusinessID: 1, CustomerName: "Dana", Date: "2026-09-06", Time: "19:00", PartySize: 4, Status: models.ReservationPending})

	w := postJSON(t, router, "GET", "/reservations/1?date=2026-09-05", nil)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, float64(2), resp["data"].(map[string]interface{})["total"])

	w = postJSON(t, router, "GET", "/reservations/1?date=2026-09-05&status=pending", nil)
	resp = decodeEnvelope(t, w)
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["total"])

	w = postJSON(t, router, "GET", "/reservations/1?search=dana", nil)
	resp = decodeEnvelope(t, w)
	assert.Equal(t, float64(2), resp["data"].(map[string]interface{})["total"])
}
