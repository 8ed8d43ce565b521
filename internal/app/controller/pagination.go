package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination is the envelope attached to every paginated list response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

type pageParams struct {
	Page   int
	Limit  int
	Offset int
}

// parsePageParams reads page and limit query parameters, clamping
// anything unreasonable back to defaults.
func parsePageParams(c *gin.Context) pageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return pageParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func paginate(params pageParams, total int64) Pagination {
	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	if pages < 1 {
		pages = 1
	}
	return Pagination{
		Total: total,
		Page:  params.Page,
		Pages: pages,
		Limit: params.Limit,
	}
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
