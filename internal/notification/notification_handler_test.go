package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"uni-hris/internal/domain"
	"uni-hris/internal/middleware"
	"uni-hris/internal/notification"
	notificationerrors "uni-hris/internal/notification/errors"
	"uni-hris/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeNotificationService struct {
	ListFn     func(ctx context.Context, p domain.Principal, unreadOnly bool) ([]notification.NotificationResponse, error)
	MarkReadFn func(ctx context.Context, p domain.Principal, id string) (notification.NotificationResponse, error)
}

func (f *fakeNotificationService) Notify(context.Context, notification.NotifyInput) error { return nil }
func (f *fakeNotificationService) List(ctx context.Context, p domain.Principal, unreadOnly bool) ([]notification.NotificationResponse, error) {
	return f.ListFn(ctx, p, unreadOnly)
}
func (f *fakeNotificationService) MarkRead(ctx context.Context, p domain.Principal, id string) (notification.NotificationResponse, error) {
	return f.MarkReadFn(ctx, p, id)
}

func setupRouter(svc notification.Service, p *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	if p != nil {
		r.Use(func(c *gin.Context) {
			middleware.SetPrincipal(c, *p)
			c.Next()
		})
	}
	h := notification.NewHandler(svc, zap.NewNop())
	r.GET("/notifications", h.List)
	r.POST("/notifications/:id/read", h.MarkRead)
	return r
}

func TestNotificationHandler_List(t *testing.T) {
	p := &domain.Principal{UserID: "u1", EmployeeID: employeeID.String(), Role: domain.RoleEmployee}

	t.Run("unread filter", func(t *testing.T) {
		svc := &fakeNotificationService{
			ListFn: func(_ context.Context, got domain.Principal, unreadOnly bool) ([]notification.NotificationResponse, error) {
				assert.Equal(t, p.EmployeeID, got.EmployeeID)
				assert.True(t, unreadOnly)
				return []notification.NotificationResponse{{ID: "n1"}}, nil
			},
		}
		w := httptest.NewRecorder()
		setupRouter(svc, p).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?unread=true", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data []notification.NotificationResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Len(t, env.Data, 1)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(&fakeNotificationService{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no employee record", func(t *testing.T) {
		svc := &fakeNotificationService{
			ListFn: func(context.Context, domain.Principal, bool) ([]notification.NotificationResponse, error) {
				return nil, notificationerrors.ErrNoEmployeeRecord
			},
		}
		w := httptest.NewRecorder()
		setupRouter(svc, p).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	p := &domain.Principal{UserID: "u1", EmployeeID: employeeID.String(), Role: domain.RoleEmployee}
	svc := &fakeNotificationService{
		MarkReadFn: func(_ context.Context, _ domain.Principal, id string) (notification.NotificationResponse, error) {
			if id == "missing" {
				return notification.NotificationResponse{}, notificationerrors.ErrNotificationNotFound
			}
			return notification.NotificationResponse{ID: id, Read: true}, nil
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc, p).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	setupRouter(svc, p).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/missing/read", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
