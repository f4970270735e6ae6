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

// ModerationController covers the posts and content-reports queues.
type ModerationController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewModerationController(db *gorm.DB, cache *services.QueryCache) *ModerationController {
	return &ModerationController{DB: db, Cache: cache}
}

// GetAllPosts -> moderation queue with filter and pagination
func (mc *ModerationController) GetAllPosts(c *gin.Context) {
	cached, err := mc.Cache.Fetch("posts:all", func() (interface{}, error) {
		var posts []models.Post
		if err := mc.DB.Preload("Author").Order("created_at desc").Find(&posts).Error; err != nil {
			return nil, err
		}
		return posts, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	posts := cached.([]models.Post)

	if status := c.Query("status"); status != "" {
		narrowed := make([]models.Post, 0, len(posts))
		for _, p := range posts {
			if p.Status == status {
				narrowed = append(narrowed, p)
			}
		}
		posts = narrowed
	}

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(posts, search, func(p models.Post) []string {
		return []string{p.Title, p.Body, p.Author.Name, p.Status}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of posts", pageResponse(pageItems, total, page, perPage))
}

// SetPostStatus -> hide, remove or restore a post
func (mc *ModerationController) SetPostStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid post id"))
		return
	}

	var post models.Post
	if err := mc.DB.First(&post, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
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
	case "active", "hidden", "removed":
	default:
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidStatus)
		return
	}

	post.Status = body.Status
	post.UpdatedAt = time.Now()
	if err := mc.DB.Save(&post).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.Cache.InvalidatePrefix("posts:")
	live.BroadcastModerationUpdate(post)

	utils.RespondJSON(c, http.StatusOK, "Post status updated", post)
}

// GetAllReports -> content report queue
func (mc *ModerationController) GetAllReports(c *gin.Context) {
	cached, err := mc.Cache.Fetch("reports:all", func() (interface{}, error) {
		var reports []models.ContentReport
		if err := mc.DB.Preload("Post").Preload("Reporter").
			Order("created_at desc").
			Find(&reports).Error; err != nil {
			return nil, err
		}
		return reports, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	reports := cached.([]models.ContentReport)

	if status := c.Query("status"); status != "" {
		narrowed := make([]models.ContentReport, 0, len(reports))
		for _, r := range reports {
			if r.Status == status {
				narrowed = append(narrowed, r)
			}
		}
		reports = narrowed
	}

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(reports, search, func(r models.ContentReport) []string {
		return []string{r.Reason, r.Status, r.Post.Title}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of reports", pageResponse(pageItems, total, page, perPage))
}

// CreateReport -> flag a post for review
func (mc *ModerationController) CreateReport(c *gin.Context) {
	type ReqBody struct {
		PostID uint   `json:"post_id" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var post models.Post
	if err := mc.DB.First(&post, body.PostID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	report := models.ContentReport{
		PostID:    body.PostID,
		Reason:    body.Reason,
		Status:    "pending",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			report.ReporterID = &id
		}
	}

	if err := mc.DB.Create(&report).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.Cache.InvalidatePrefix("reports:")
	utils.RespondJSON(c, http.StatusCreated, "Report created", report)
}

// ResolveReport closes a report as resolved or dismissed, with an optional
// resolution note.
func (mc *ModerationController) ResolveReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("report_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid report id"))
		return
	}

	var report models.ContentReport
	if err := mc.DB.First(&report, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type ReqBody struct {
		Status string `json:"status" binding:"required"` // resolved, dismissed
		Note   string `json:"note"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch body.Status {
	case "reviewed", "resolved", "dismissed":
	default:
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidStatus)
		return
	}

	report.Status = body.Status
	if body.Note != "" {
		report.ResolutionNote = &body.Note
	}
	report.UpdatedAt = time.Now()
	if err := mc.DB.Save(&report).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.Cache.InvalidatePrefix("reports:")
	live.BroadcastModerationUpdate(report)

	utils.RespondJSON(c, http.StatusOK, "Report updated", report)
}
