package notification

import (
	"net/http"
	"strconv"

	"uni-hris/internal/middleware"
	"uni-hris/internal/shared/apperror"
	"uni-hris/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) List(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	resp, err := h.service.List(c.Request.Context(), p, unread)
	if err != nil {
		h.logger.Warn("list notifications failed", zap.Error(err))
		response.FromError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) MarkRead(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.MarkRead(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.logger.Warn("mark notification read failed", zap.String("id", c.Param("id")), zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
