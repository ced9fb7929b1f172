package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sakayph/fares-api/internal/ingest"
	"github.com/sakayph/fares-api/internal/logger"
	"github.com/sakayph/fares-api/internal/middleware"
	"github.com/sakayph/fares-api/internal/models"
	"github.com/sakayph/fares-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTerminalService is a mock implementation of services.TerminalService.
type MockTerminalService struct {
	mock.Mock
}

func (m *MockTerminalService) GetTerminal(ctx context.Context, id int64) (*models.Terminal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Terminal), args.Error(1)
}

func (m *MockTerminalService) DeleteTerminal(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// setupTerminalTestRouter creates a test router with middleware and terminal routes.
func setupTerminalTestRouter(handler *TerminalHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	v1 := router.Group("/api/v1")
	{
		terminals := v1.Group("/terminals")
		{
			terminals.POST("", handler.Create)
			terminals.GET("/:id", handler.Get)
			terminals.DELETE("/:id", handler.Delete)
		}
	}

	return router
}

func postTerminal(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/terminals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTerminal_WithFares(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	terminalID := int64(42)
	mockIngest.On("CreateTerminalWithFares", mock.Anything, mock.MatchedBy(func(input services.TerminalUploadInput) bool {
		return input.Terminal.Name == "Bocaue TODA Terminal" &&
			input.Place == "Bocaue" &&
			len(input.Rows) == 1
	})).Return(&services.UploadResult{
		Category:   models.CategoryLGU,
		Scope:      "place:Bocaue",
		Inserted:   1,
		TerminalID: &terminalID,
	}, nil)

	// Act
	w := postTerminal(t, router, `{
		"name": "Bocaue TODA Terminal",
		"place": "Bocaue",
		"latitude": 14.8,
		"longitude": 120.92,
		"fares": [{"Location": "Poblacion", "Fare": "25.50"}]
	}`)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp CreateTerminalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.TerminalID)
	assert.Equal(t, int64(1), resp.Inserted)
	mockIngest.AssertExpectations(t)
}

func TestCreateTerminal_MissingName(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	// Act
	w := postTerminal(t, router, `{"place": "Bocaue"}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockIngest.AssertNotCalled(t, "CreateTerminalWithFares")
}

func TestCreateTerminal_LatitudeOutOfRange(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	// Act
	w := postTerminal(t, router, `{"name": "Bad Terminal", "latitude": 120.0, "longitude": 14.8}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockIngest.AssertNotCalled(t, "CreateTerminalWithFares")
}

func TestCreateTerminal_FaresWithoutPlace(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	mockIngest.On("CreateTerminalWithFares", mock.Anything, mock.Anything).
		Return(nil, ingest.ErrPlaceRequired)

	// Act
	w := postTerminal(t, router, `{
		"name": "Bocaue TODA Terminal",
		"fares": [{"Location": "Poblacion", "Fare": "25.50"}]
	}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "place")
}

func TestCreateTerminal_PersistenceFailure(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	mockIngest.On("CreateTerminalWithFares", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	// Act
	w := postTerminal(t, router, `{"name": "Bocaue TODA Terminal"}`)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestGetTerminal_Success(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	mockTerminals.On("GetTerminal", mock.Anything, int64(7)).Return(&models.Terminal{
		ID:   7,
		Name: "Bocaue TODA Terminal",
	}, nil)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/v1/terminals/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp TerminalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Terminal)
	assert.Equal(t, int64(7), resp.Terminal.ID)
}

func TestGetTerminal_NotFound(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	mockTerminals.On("GetTerminal", mock.Anything, int64(404)).
		Return(nil, services.ErrTerminalNotFound)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/v1/terminals/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTerminal_Success(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	mockTerminals.On("DeleteTerminal", mock.Anything, int64(7)).Return(nil)

	// Act
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/terminals/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	mockTerminals.AssertExpectations(t)
}

func TestDeleteTerminal_NotFound(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	mockTerminals.On("DeleteTerminal", mock.Anything, int64(404)).
		Return(services.ErrTerminalNotFound)

	// Act
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/terminals/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTerminal_InvalidID(t *testing.T) {
	// Arrange
	mockIngest := new(MockIngestService)
	mockTerminals := new(MockTerminalService)
	handler := NewTerminalHandler(mockIngest, mockTerminals)
	router := setupTerminalTestRouter(handler)

	// Act
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/terminals/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTerminals.AssertNotCalled(t, "DeleteTerminal")
}
