package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/searchapi/prodsearch/internal/pkg/errcode"
	apperrors "github.com/searchapi/prodsearch/internal/pkg/errors"
	"github.com/searchapi/prodsearch/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case apperrors.IsInvalid(err):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, apperrors.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, "not found")
	case apperrors.IsEmbedding(err):
		response.Error(c, http.StatusInternalServerError, errcode.ErrEmbedding, "search failed: "+err.Error())
	case apperrors.IsCatalog(err):
		response.Error(c, http.StatusInternalServerError, errcode.ErrCatalog, "catalog unavailable: "+err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}
