package payroll

import (
	"net/http"
	"strconv"
	"strings"

	"uni-hris/internal/middleware"
	payrollerrors "uni-hris/internal/payroll/errors"
	"uni-hris/internal/shared/apperror"
	"uni-hris/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Generate(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	var req GeneratePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http generate payslip validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.RememberResponse(c, h.rdb, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), p, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func parseListFilter(c *gin.Context) (ListFilter, error) {
	filter := ListFilter{EmployeeID: strings.TrimSpace(c.Query("employee_id"))}

	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return ListFilter{}, payrollerrors.ErrInvalidYear
		}
		filter.Year = year
	}
	if v := c.Query("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return ListFilter{}, payrollerrors.ErrInvalidMonth
		}
		filter.Month = month
	}
	if v := c.Query("paid"); v != "" {
		paid, err := strconv.ParseBool(v)
		if err != nil {
			return ListFilter{}, payrollerrors.ErrInvalidFilter
		}
		filter.Paid = &paid
	}
	return filter, nil
}

func (h *Handler) GetById(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// ExportOne serves /payslips/:id/export.
func (h *Handler) ExportOne(c *gin.Context) {
	h.export(c, ExportRequest{
		Format: c.DefaultQuery("format", "pdf"),
		ID:     c.Param("id"),
	})
}

// ExportBatch serves /payslips/export with ids, payslipId or neither.
func (h *Handler) ExportBatch(c *gin.Context) {
	req := ExportRequest{
		Format:    c.DefaultQuery("format", "pdf"),
		PayslipID: c.Query("payslipId"),
	}
	if raw := c.Query("ids"); raw != "" {
		req.IDs = strings.Split(raw, ",")
	}
	h.export(c, req)
}

func (h *Handler) export(c *gin.Context, req ExportRequest) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	result, err := h.service.Export(c.Request.Context(), p, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.logger.Info("payslips exported",
		zap.String("filename", result.Filename),
		zap.Int("bytes", len(result.Body)),
	)
	response.Attachment(c, result.ContentType, result.Filename, result.Body)
}

func (h *Handler) Download(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	url, err := h.service.DownloadURL(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.FromError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AttachPayoutReference(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	var req PayoutReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AttachPayoutReference(c.Request.Context(), p, c.Param("id"), req.PayoutReference)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
