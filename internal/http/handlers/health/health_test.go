package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockChecker реализует интерфейс health.ReadinessChecker
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) CheckReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		setupMock      func(*MockChecker)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "база готова",
			setupMock: func(m *MockChecker) {
				m.On("CheckReady", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ok"`,
		},
		{
			name: "база недоступна",
			setupMock: func(m *MockChecker) {
				m.On("CheckReady", mock.Anything).Return(errors.New("connection refused"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"error":"service unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(MockChecker)
			tt.setupMock(checker)

			handler := New(logger, checker)
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			checker.AssertExpectations(t)
		})
	}
}
