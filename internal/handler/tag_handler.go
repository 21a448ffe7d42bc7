package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catimporter/backend/internal/service"
)

// PaginatedTagResponse defines the structure for a paginated list of tags.
type PaginatedTagResponse struct {
	Data []service.TagDTO `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// GetTags godoc
// @Summary      Get all tags
// @Description  Retrieves a paginated list of temperament tags with the number of cats carrying each.
// @Tags         tags
// @Produce      json
// @Param        page     query     int  false  "Page number" default(1)
// @Param        pageSize query     int  false  "Items per page" default(10)
// @Success      200  {object}  PaginatedTagResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /tags [get]
func (h *CatHandler) GetTags(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	tags, err := h.svc.ListTags(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(tags))
}
