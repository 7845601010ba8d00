package draftread

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stepanenkodv/realty-board/internal/http/middlewarectx"
	"github.com/stepanenkodv/realty-board/internal/models"
	draftsvc "github.com/stepanenkodv/realty-board/internal/services/draft"
)

// MockService реализует интерфейс draftread.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetForOwner(ctx context.Context, id, userUID string) (*models.PropertyDraft, error) {
	args := m.Called(ctx, id, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.PropertyDraft), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestDraftReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		draftID        string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное чтение черновика",
			draftID: "d-1",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("GetForOwner", mock.Anything, "d-1", "uid-1").
					Return(&models.PropertyDraft{
						ID:      "d-1",
						UserUID: "uid-1",
						Step:    models.DraftStepLocation,
						Payload: json.RawMessage(`{"title":"Квартира"}`),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"draft_id":"d-1"`,
		},
		{
			name:    "несуществующий черновик",
			draftID: "d-404",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("GetForOwner", mock.Anything, "d-404", "uid-1").
					Return(nil, draftsvc.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"hint":"start a new listing from POST /drafts"`,
		},
		{
			name:    "чужой черновик неотличим от несуществующего",
			draftID: "d-2",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("GetForOwner", mock.Anything, "d-2", "uid-1").
					Return(nil, draftsvc.ErrForbidden)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"hint":"start a new listing from POST /drafts"`,
		},
		{
			name:           "нет пользователя в контексте",
			draftID:        "d-1",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка хранилища",
			draftID: "d-1",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("GetForOwner", mock.Anything, "d-1", "uid-1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read draft"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/drafts/"+tt.draftID, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.draftID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
