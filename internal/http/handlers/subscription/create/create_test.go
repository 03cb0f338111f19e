package create_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/sub-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sub-manager/internal/models"
	subservice "github.com/magabrotheeeer/sub-manager/internal/services/subscription"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Create(ctx context.Context, username string, req models.DummySubscription) (int64, error) {
	args := m.Called(ctx, username, req)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const validBody = `{"title":"Netflix","price":15.99,"cycle":"MONTHLY","date_of_last_payment":"2024-01-31","currency_id":1}`

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *ServiceMock)
		wantStatusCode int
	}{
		{
			name: "success",
			body: validBody,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "alice", mock.Anything).Return(int64(42), nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           "{broken",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "validation failure",
			body:           `{"title":"Netflix","price":-1,"cycle":"WEEKLY","date_of_last_payment":"2024-01-31","currency_id":1}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown currency",
			body: validBody,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "alice", mock.Anything).
					Return(int64(0), repository.ErrCurrencyNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "date of last payment in the future",
			body: validBody,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "alice", mock.Anything).
					Return(int64(0), subservice.ErrDateInFuture).Once()
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMock(service)
			handler := create.New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/api/subscription", strings.NewReader(tt.body))
			ctx := context.WithValue(req.Context(), middlewarectx.User, "alice")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
