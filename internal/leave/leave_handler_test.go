package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"uni-hris/internal/domain"
	"uni-hris/internal/leave"
	leaveerrors "uni-hris/internal/leave/errors"
	"uni-hris/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn  func(ctx context.Context, p domain.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	listFn    func(ctx context.Context, p domain.Principal, filter leave.ListFilter) ([]leave.LeaveResponse, error)
	getByIDFn func(ctx context.Context, p domain.Principal, id string) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, p domain.Principal, id string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, p domain.Principal, id, reason string) (leave.LeaveResponse, error)
	cancelFn  func(ctx context.Context, p domain.Principal, id string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, p domain.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, p, req)
}
func (f *fakeLeaveService) List(ctx context.Context, p domain.Principal, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.listFn(ctx, p, filter)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, p domain.Principal, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, p, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, p domain.Principal, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, p, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, p domain.Principal, id, reason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, p, id, reason)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, p domain.Principal, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, p, id)
}

func newLeaveContext(method, target, body string, p *domain.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if p != nil {
		middleware.SetPrincipal(c, *p)
	}
	return c, w
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p := ownerPrincipal()
		svc := &fakeLeaveService{
			createFn: func(_ context.Context, got domain.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, p, got)
				assert.Equal(t, "ANNUAL", req.LeaveType)
				return leave.LeaveResponse{
					ID:         uuid.NewString(),
					EmployeeID: p.EmployeeID,
					LeaveType:  req.LeaveType,
					StartDate:  req.StartDate,
					EndDate:    req.EndDate,
					TotalDays:  2,
					Status:     leave.StatusPending,
					CreatedBy:  p.UserID,
				}, nil
			},
		}

		body := `{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-11","reason":"Family matters"}`
		c, w := newLeaveContext(http.MethodPost, "/leaves", body, &p)

		leave.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, p.EmployeeID, got.EmployeeID)
		assert.Equal(t, 2, got.TotalDays)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		p := ownerPrincipal()
		body := `{"leave_type":"SABBATICAL","start_date":"2026-03-10","end_date":"2026-03-11"}`
		c, w := newLeaveContext(http.MethodPost, "/leaves", body, &p)

		leave.NewHandler(&fakeLeaveService{}).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})

	t.Run("missing principal", func(t *testing.T) {
		c, w := newLeaveContext(http.MethodPost, "/leaves", `{}`, nil)

		leave.NewHandler(&fakeLeaveService{}).Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("overlap surfaces as conflict", func(t *testing.T) {
		p := ownerPrincipal()
		svc := &fakeLeaveService{
			createFn: func(context.Context, domain.Principal, leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		body := `{"leave_type":"SICK","start_date":"2026-03-10","end_date":"2026-03-10"}`
		c, w := newLeaveContext(http.MethodPost, "/leaves", body, &p)

		leave.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, leaveerrors.ErrLeaveOverlap.Code, env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	p := managerHR
	svc := &fakeLeaveService{
		listFn: func(_ context.Context, _ domain.Principal, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
			assert.Equal(t, "PENDING", filter.Status)
			return []leave.LeaveResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		},
	}
	c, w := newLeaveContext(http.MethodGet, "/leaves?status=PENDING&page=1&page_size=2", "", &p)

	leave.NewHandler(svc).GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var items []leave.LeaveResponse
	assert.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)
	assert.Contains(t, string(env.Meta), `"total":3`)
}

func TestLeaveHandler_Decisions(t *testing.T) {
	t.Run("reject requires reason body", func(t *testing.T) {
		p := managerHR
		c, w := newLeaveContext(http.MethodPost, "/leaves/x/reject", `{}`, &p)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

		leave.NewHandler(&fakeLeaveService{}).Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reject passes reason", func(t *testing.T) {
		p := managerHR
		id := uuid.NewString()
		svc := &fakeLeaveService{
			rejectFn: func(_ context.Context, _ domain.Principal, gotID, reason string) (leave.LeaveResponse, error) {
				assert.Equal(t, id, gotID)
				assert.Equal(t, "exam period", reason)
				return leave.LeaveResponse{ID: gotID, Status: leave.StatusRejected}, nil
			},
		}
		c, w := newLeaveContext(http.MethodPost, "/leaves/"+id+"/reject", `{"reason":"exam period"}`, &p)
		c.Params = gin.Params{{Key: "id", Value: id}}

		leave.NewHandler(svc).Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("approve of decided request", func(t *testing.T) {
		p := managerHR
		svc := &fakeLeaveService{
			approveFn: func(context.Context, domain.Principal, string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
			},
		}
		c, w := newLeaveContext(http.MethodPost, "/leaves/x/approve", "", &p)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

		leave.NewHandler(svc).Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("cancel by owner", func(t *testing.T) {
		p := ownerPrincipal()
		svc := &fakeLeaveService{
			cancelFn: func(_ context.Context, got domain.Principal, id string) (leave.LeaveResponse, error) {
				assert.Equal(t, p.EmployeeID, got.EmployeeID)
				return leave.LeaveResponse{ID: id, Status: leave.StatusCancelled}, nil
			},
		}
		c, w := newLeaveContext(http.MethodPost, "/leaves/x/cancel", "", &p)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

		leave.NewHandler(svc).Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Contains(t, string(env.Data), leave.StatusCancelled)
	})
}
