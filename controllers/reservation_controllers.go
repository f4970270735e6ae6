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

type ReservationController struct {
	DB           *gorm.DB
	Cache        *services.QueryCache
	Availability *services.AvailabilityService
}

func NewReservationController(db *gorm.DB, cache *services.QueryCache, availability *services.AvailabilityService) *ReservationController {
	return &ReservationController{DB: db, Cache: cache, Availability: availability}
}

func reservationListKey(businessID uint) string {
	return fmt.Sprintf("reservations:%d:all", businessID)
}

// GetAllReservations -> filtered, paginated tenant list.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	cached, err := rc.Cache.Fetch(reservationListKey(bizID), func() (interface{}, error) {
		var reservations []models.Reservation
		if err := rc.DB.Preload("Table").
			Where("business_id = ?", bizID).
			Order("date asc, time asc").
			Find(&reservations).Error; err != nil {
			return nil, err
		}
		return reservations, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	reservations := cached.([]models.Reservation)

	if date := c.Query("date"); date != "" {
		narrowed := make([]models.Reservation, 0, len(reservations))
		for _, r := range reservations {
			if r.Date == date {
				narrowed = append(narrowed, r)
			}
		}
		reservations = narrowed
	}
	if status := c.Query("status"); status != "" {
		narrowed := make([]models.Reservation, 0, len(reservations))
		for _, r := range reservations {
			if string(r.Status) == status {
				narrowed = append(narrowed, r)
			}
		}
		reservations = narrowed
	}

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(reservations, search, func(r models.Reservation) []string {
		return []string{r.CustomerName, derefStr(r.CustomerEmail), derefStr(r.CustomerPhone), r.Date, string(r.Status), derefStr(r.Occasion)}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of reservations", pageResponse(pageItems, total, page, perPage))
}

// GetAvailability -> bookable slots for a date and party size. Falls back to
// the fixed lunch/dinner list when the business has no bookable data.
func (rc *ReservationController) GetAvailability(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("date is required"))
		return
	}
	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "2"))
	if err != nil || partySize <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("party_size must be a positive integer"))
		return
	}

	slots, err := rc.Availability.Slots(bizID, date, partySize)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available slots", gin.H{
		"date":       date,
		"party_size": partySize,
		"slots":      slots,
	})
}

// CreateReservation -> staff form or online booking (source=online).
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	type ReqBody struct {
		CustomerName      string  `json:"customer_name" binding:"required"`
		CustomerEmail     *string `json:"customer_email"`
		CustomerPhone     *string `json:"customer_phone"`
		Date              string  `json:"date" binding:"required"`
		Time              string  `json:"time" binding:"required"`
		PartySize         int     `json:"party_size" binding:"required,gt=0"`
		DurationMinutes   int     `json:"duration_minutes"`
		TableID           *uint   `json:"table_id"`
		SeatingPreference string  `json:"seating_preference"`
		SpecialRequests   string  `json:"special_requests"`
		Occasion          *string `json:"occasion"`
		Source            string  `json:"source"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	preference := models.SeatingPreference(body.SeatingPreference)
	if preference == "" {
		preference = models.SeatingNoPreference
	}
	duration := body.DurationMinutes
	if duration <= 0 {
		duration = 90
	}
	source := body.Source
	if source == "" {
		source = "staff"
	}

	reservation := models.Reservation{
		BusinessID:        bizID,
		CustomerName:      body.CustomerName,
		CustomerEmail:     body.CustomerEmail,
		CustomerPhone:     body.CustomerPhone,
		Date:              body.Date,
		Time:              body.Time,
		PartySize:         body.PartySize,
		DurationMinutes:   duration,
		TableID:           body.TableID,
		SeatingPreference: preference,
		SpecialRequests:   body.SpecialRequests,
		Occasion:          body.Occasion,
		Status:            models.ReservationPending,
		Source:            source,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := rc.DB.Create(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.invalidate(bizID)
	live.BroadcastReservationUpdate(reservation)

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// GetReservationByID -> single reservation
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	reservation, ok := rc.loadReservation(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// AdvanceReservationStatus moves the reservation to its single next status.
func (rc *ReservationController) AdvanceReservationStatus(c *gin.Context) {
	reservation, ok := rc.loadReservation(c)
	if !ok {
		return
	}

	next, hasNext := models.NextReservationStatus(reservation.Status)
	if !hasNext {
		utils.RespondError(c, http.StatusConflict, ErrAlreadyTerminal)
		return
	}

	reservation.Status = next
	reservation.UpdatedAt = time.Now()
	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.invalidate(reservation.BusinessID)
	live.BroadcastReservationUpdate(reservation)

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Reservation %s", next), reservation)
}

// CancelReservation -> terminal; the reason is appended to internal notes.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	reservation, ok := rc.loadReservation(c)
	if !ok {
		return
	}

	if !models.CanCancelReservation(reservation.Status) {
		utils.RespondError(c, http.StatusConflict, ErrCancelNotAllowed)
		return
	}

	type ReqBody struct {
		Reason string `json:"reason"`
	}
	var body ReqBody
	_ = c.ShouldBindJSON(&body)

	reservation.Status = models.ReservationCancelled
	if body.Reason != "" {
		note := fmt.Sprintf("Cancelled: %s", body.Reason)
		if reservation.InternalNotes != "" {
			reservation.InternalNotes += "\n" + note
		} else {
			reservation.InternalNotes = note
		}
	}
	reservation.UpdatedAt = time.Now()
	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.invalidate(reservation.BusinessID)
	live.BroadcastReservationUpdate(reservation)
	live.BroadcastStaffNotification(fmt.Sprintf("Reservation for %s on %s cancelled", reservation.CustomerName, reservation.Date))

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}

// AssignTable changes the table independently of status. Capacity and
// conflict validation belong to the availability lookup, not here.
func (rc *ReservationController) AssignTable(c *gin.Context) {
	reservation, ok := rc.loadReservation(c)
	if !ok {
		return
	}

	type ReqBody struct {
		TableID *uint `json:"table_id"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.TableID != nil {
		var table models.Table
		if err := rc.DB.First(&table, *body.TableID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		if table.BusinessID != reservation.BusinessID {
			utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
			return
		}
	}

	reservation.TableID = body.TableID
	reservation.UpdatedAt = time.Now()
	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.invalidate(reservation.BusinessID)
	live.BroadcastReservationUpdate(reservation)

	utils.RespondJSON(c, http.StatusOK, "Table assigned", reservation)
}

// UpdateNotes edits the internal staff notes, independent of status.
func (rc *ReservationController) UpdateNotes(c *gin.Context) {
	reservation, ok := rc.loadReservation(c)
	if !ok {
		return
	}

	type ReqBody struct {
		InternalNotes string `json:"internal_notes"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation.InternalNotes = body.InternalNotes
	reservation.UpdatedAt = time.Now()
	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.invalidate(reservation.BusinessID)

	utils.RespondJSON(c, http.StatusOK, "Notes updated", reservation)
}

func (rc *ReservationController) loadReservation(c *gin.Context) (models.Reservation, bool) {
	var reservation models.Reservation

	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid reservation id"))
		return reservation, false
	}

	if err := rc.DB.Preload("Table").First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return reservation, false
	}

	if bizID := businessID(c); bizID != 0 && reservation.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return reservation, false
	}
	return reservation, true
}

func (rc *ReservationController) invalidate(bizID uint) {
	rc.Cache.InvalidatePrefix(fmt.Sprintf("reservations:%d", bizID))
	rc.Cache.InvalidatePrefix(fmt.Sprintf("dashboard:%d", bizID))
}
