package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"catimporter/backend/internal/apperr"
	"catimporter/backend/internal/service"
)

// region --- DTOs ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// FetchErrorResponse is returned when an import fails.
type FetchErrorResponse struct {
	Message string `json:"message" example:"An error occurred while fetching cats."`
	Error   string `json:"error" example:"upstream fetch failed: status 401"`
}

// FetchResponse is returned after a successful import.
type FetchResponse struct {
	Message string               `json:"message" example:"25 cats fetched and saved successfully."`
	Result  service.ImportResult `json:"result"`
}

// PaginatedCatResponse defines the structure for a paginated list of cats.
type PaginatedCatResponse struct {
	Data []service.CatDTO `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// endregion

// CatHandler serves the cat endpoints.
type CatHandler struct {
	svc *service.CatService
}

// NewCatHandler creates a CatHandler.
func NewCatHandler(svc *service.CatService) *CatHandler {
	return &CatHandler{svc: svc}
}

// RegisterRoutes mounts the cat and tag routes on rg.
func (h *CatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cats := rg.Group("/cat")
	{
		cats.POST("/fetch", h.FetchCats)
		cats.GET("", h.GetCats)
		cats.GET("/tag", h.GetCatsByTag) // Must be before /:id
		cats.GET("/:id", h.GetCatByID)
	}

	rg.GET("/tags", h.GetTags)
}

// FetchCats godoc
// @Summary      Fetch and save cats
// @Description  Fetches random cats with breed data from TheCatAPI and stores the ones not seen before.
// @Tags         cats
// @Produce      json
// @Param        count query     int  false  "Number of cats to fetch" default(25)
// @Success      200   {object}  FetchResponse
// @Failure      400   {object}  FetchErrorResponse
// @Failure      502   {object}  FetchErrorResponse "Upstream API failure"
// @Failure      500   {object}  FetchErrorResponse
// @Router       /cat/fetch [post]
func (h *CatHandler) FetchCats(c *gin.Context) {
	count, err := intQuery(c, "count", service.DefaultFetchCount)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	result, err := h.svc.FetchAndSave(c.Request.Context(), count)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, FetchResponse{
		Message: fmt.Sprintf("%d cats fetched and saved successfully.", count),
		Result:  *result,
	})
}

// GetCatByID godoc
// @Summary      Get a cat by ID
// @Description  Retrieves a single cat by its TheCatAPI image ID, with its tags.
// @Tags         cats
// @Produce      json
// @Param        id   path      string  true  "Cat ID"
// @Success      200  {object}  service.CatDTO
// @Failure      404  {object}  ErrorResponse "Cat not found"
// @Router       /cat/{id} [get]
func (h *CatHandler) GetCatByID(c *gin.Context) {
	id := c.Param("id")
	cat, err := h.svc.GetByID(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Cat with ID %s not found.", id)})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// GetCats godoc
// @Summary      Get a list of cats
// @Description  Retrieves a paginated list of cats in insertion order.
// @Tags         cats
// @Produce      json
// @Param        page     query     int  false  "Page number" default(1)
// @Param        pageSize query     int  false  "Items per page" default(10)
// @Success      200 {object} PaginatedCatResponse
// @Failure      400 {object} ErrorResponse
// @Router       /cat [get]
func (h *CatHandler) GetCats(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	cats, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(cats))
}

// GetCatsByTag godoc
// @Summary      Get cats by tag
// @Description  Retrieves a paginated list of cats that carry the given tag (exact, case-sensitive match).
// @Tags         cats
// @Produce      json
// @Param        tag      query     string  true   "Tag name"
// @Param        page     query     int     false  "Page number" default(1)
// @Param        pageSize query     int     false  "Items per page" default(10)
// @Success      200 {object} PaginatedCatResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "No cats with this tag"
// @Router       /cat/tag [get]
func (h *CatHandler) GetCatsByTag(c *gin.Context) {
	tag := c.Query("tag")
	page, pageSize, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	cats, err := h.svc.ListByTag(c.Request.Context(), tag, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(cats.Items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No cats found with tag '%s'.", tag)})
		return
	}
	c.JSON(http.StatusOK, newPageResponse(cats))
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func respondFetchError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), FetchErrorResponse{
		Message: "An error occurred while fetching cats.",
		Error:   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUpstreamFetch), errors.Is(err, apperr.ErrUpstreamParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
