package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/services"
	"github.com/bistroboard/bistroboard/utils"
)

type TeamController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewTeamController(db *gorm.DB, cache *services.QueryCache) *TeamController {
	return &TeamController{DB: db, Cache: cache}
}

// GetTeam -> tenant member list
func (tc *TeamController) GetTeam(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	var members []models.TeamMember
	if err := tc.DB.Preload("User").
		Where("business_id = ?", bizID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(members, search, func(m models.TeamMember) []string {
		name := ""
		if m.User != nil {
			name = m.User.Name
		}
		return []string{m.Email, m.Role, m.Status, name}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "Team members", pageResponse(pageItems, total, page, perPage))
}

// InviteMember -> create an invited member with a one-time token. Existing
// users are linked immediately.
func (tc *TeamController) InviteMember(c *gin.Context) {
	bizID := businessID(c)
	if bizID == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid business id"))
		return
	}

	type ReqBody struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	email := strings.ToLower(body.Email)

	var existing models.TeamMember
	if err := tc.DB.Where("business_id = ? AND email = ? AND status != ?", bizID, email, "revoked").
		First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("%s is already on the team", email))
		return
	}

	member := models.TeamMember{
		BusinessID:  bizID,
		Email:       email,
		Role:        body.Role,
		Status:      "invited",
		InviteToken: uuid.NewString(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	var user models.User
	if err := tc.DB.Where("email = ?", email).First(&user).Error; err == nil {
		member.UserID = &user.ID
		member.Status = "active"
		member.InviteToken = ""
	}

	if err := tc.DB.Create(&member).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Team invite: %s as %s (business=%d)", email, body.Role, bizID)
	utils.RespondJSON(c, http.StatusCreated, "Member invited", member)
}

// UpdateMemberRole
func (tc *TeamController) UpdateMemberRole(c *gin.Context) {
	member, ok := tc.loadMember(c)
	if !ok {
		return
	}

	type ReqBody struct {
		Role string `json:"role" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	member.Role = body.Role
	member.UpdatedAt = time.Now()
	if err := tc.DB.Save(&member).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Member role updated", member)
}

// RevokeMember -> terminal member status; the login itself is untouched.
func (tc *TeamController) RevokeMember(c *gin.Context) {
	member, ok := tc.loadMember(c)
	if !ok {
		return
	}

	member.Status = "revoked"
	member.InviteToken = ""
	member.UpdatedAt = time.Now()
	if err := tc.DB.Save(&member).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Member revoked", member)
}

func (tc *TeamController) loadMember(c *gin.Context) (models.TeamMember, bool) {
	var member models.TeamMember

	id, err := strconv.Atoi(c.Param("member_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid member id"))
		return member, false
	}

	if err := tc.DB.First(&member, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return member, false
	}

	if bizID := businessID(c); bizID != 0 && member.BusinessID != bizID {
		utils.RespondError(c, http.StatusNotFound, ErrBusinessMismatch)
		return member, false
	}
	return member, true
}
