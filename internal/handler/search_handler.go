package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/searchapi/prodsearch/internal/pkg/errcode"
	"github.com/searchapi/prodsearch/internal/pkg/response"
	"github.com/searchapi/prodsearch/internal/service"
)

type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "valid query string is required")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "valid query string is required")
		return
	}
	results, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, results)
}
