package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bistroboard/bistroboard/utils"
)

// businessID reads the tenant id from the route. Zero means a malformed
// path, which the caller turns into a 400.
func businessID(c *gin.Context) uint {
	id, err := strconv.ParseUint(c.Param("business_id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// listParams reads the shared list-view query parameters.
func listParams(c *gin.Context) (search string, page, perPage int) {
	search = c.Query("search")

	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "15"))
	if perPage <= 0 {
		perPage = utils.DefaultPerPage
	}
	return
}

// pageResponse is the envelope data for every paginated list.
func pageResponse(items interface{}, total, page, perPage int) gin.H {
	return gin.H{
		"items":    items,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	}
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
