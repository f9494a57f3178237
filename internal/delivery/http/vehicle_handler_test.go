package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autolab/registry/internal/domain"
	"github.com/autolab/registry/internal/pkg/logger"
	"github.com/autolab/registry/internal/usecase/vehicle"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVehicleService - мок сервиса реестра
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) ListVehicles(ctx context.Context, criteria domain.ListCriteria) ([]*domain.Vehicle, int, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Vehicle), args.Int(1), args.Error(2)
}

func (m *MockVehicleService) UpdateVehicle(ctx context.Context, id int64, req *vehicle.CreateVehicleRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockVehicleService) DeleteVehicle(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleService) SearchVehicles(ctx context.Context, term, searchType string) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, term, searchType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

// newTestRouter собирает роутер с замоканным сервисом
func newTestRouter(service VehicleService) http.Handler {
	r := chi.NewRouter()
	handler := NewVehicleHandler(service, logger.NewNoop())

	r.Route("/api/v1/vehicles", func(r chi.Router) {
		r.Get("/", handler.ListVehicles)
		r.Post("/", handler.CreateVehicle)
		r.Get("/search", handler.SearchVehicles)
		r.Get("/{id}", handler.GetVehicle)
		r.Put("/{id}", handler.UpdateVehicle)
		r.Delete("/{id}", handler.DeleteVehicle)
	})

	return r
}

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:           42,
		Country:      "Spain",
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2020,
		LicensePlate: "ABC123DE",
		VinCode:      "12345678901234567",
	}
}

// TestVehicleHandler_ListVehicles тестирует список с фильтрами
func TestVehicleHandler_ListVehicles(t *testing.T) {
	t.Run("успешный список", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("ListVehicles", mock.Anything, mock.MatchedBy(func(c domain.ListCriteria) bool {
			return c.Brand == "Toyota" && c.Page == 2 && c.PageSize == 5
		})).Return([]*domain.Vehicle{testVehicle()}, 15, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles?brand=Toyota&page=2&pageSize=5", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 15, resp.Total)
		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, 5, resp.PageSize)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("год и диапазон лет попадают в критерии", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("ListVehicles", mock.Anything, mock.MatchedBy(func(c domain.ListCriteria) bool {
			return c.Year != nil && *c.Year == 2020 &&
				c.YearFrom != nil && *c.YearFrom == 2010 &&
				c.YearTo != nil && *c.YearTo == 2022
		})).Return([]*domain.Vehicle{}, 0, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles?year=2020&yearFrom=2010&yearTo=2022", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		service.AssertExpectations(t)
	})

	t.Run("невалидная пагинация от сервиса", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("ListVehicles", mock.Anything, mock.Anything).
			Return(nil, 0, domain.ErrInvalidPagination)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles?pageSize=500", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("нечисловая страница", func(t *testing.T) {
		service := new(MockVehicleService)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles?page=abc", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "ListVehicles", mock.Anything, mock.Anything)
	})

	t.Run("пустой результат отдается как пустой массив", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("ListVehicles", mock.Anything, mock.Anything).Return(nil, 0, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})
}

// TestVehicleHandler_GetVehicle тестирует получение по ID
func TestVehicleHandler_GetVehicle(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		mockSetup      func(*MockVehicleService)
		expectedStatus int
	}{
		{
			name: "найден",
			url:  "/api/v1/vehicles/42",
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicle", mock.Anything, int64(42)).Return(testVehicle(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "не найден",
			url:  "/api/v1/vehicles/42",
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicle", mock.Anything, int64(42)).Return(nil, domain.ErrVehicleNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "неположительный ID",
			url:  "/api/v1/vehicles/0",
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicle", mock.Anything, int64(0)).Return(nil, domain.ErrInvalidID)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "нечисловой ID",
			url:            "/api/v1/vehicles/abc",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockVehicleService)
			tt.mockSetup(service)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			newTestRouter(service).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// TestVehicleHandler_CreateVehicle тестирует создание автомобиля
func TestVehicleHandler_CreateVehicle(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockVehicleService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "успешное создание",
			requestBody: vehicle.CreateVehicleRequest{
				Country:      "Spain",
				Brand:        "Toyota",
				Model:        "Corolla",
				Year:         2020,
				LicensePlate: "ABC123DE",
				VinCode:      "12345678901234567",
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(testVehicle(), nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "/api/v1/vehicles/42", w.Header().Get("Location"))

				var v domain.Vehicle
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
				assert.Equal(t, "ABC123DE", v.LicensePlate)
			},
		},
		{
			name:        "дубликат VIN",
			requestBody: vehicle.CreateVehicleRequest{},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.Anything).
					Return(nil, domain.ErrDuplicateVin)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "дубликат номера",
			requestBody: vehicle.CreateVehicleRequest{},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.Anything).
					Return(nil, domain.ErrDuplicatePlate)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "ошибка валидации",
			requestBody: vehicle.CreateVehicleRequest{},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.Anything).
					Return(nil, domain.ErrMissingField)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "страна не прошла проверку",
			requestBody: vehicle.CreateVehicleRequest{},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.Anything).
					Return(nil, domain.ErrCountryNotValid)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "справочник стран недоступен",
			requestBody: vehicle.CreateVehicleRequest{},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.Anything).
					Return(nil, domain.ErrCountryUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "невалидный JSON",
			requestBody:    "not-json",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockVehicleService)
			tt.mockSetup(service)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newTestRouter(service).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}

			service.AssertExpectations(t)
		})
	}
}

// TestVehicleHandler_UpdateVehicle тестирует полную замену
func TestVehicleHandler_UpdateVehicle(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{"успешное обновление", nil, http.StatusNoContent},
		{"не найден", domain.ErrVehicleNotFound, http.StatusNotFound},
		{"конфликт версий", domain.ErrConcurrentModification, http.StatusConflict},
		{"дубликат VIN", domain.ErrDuplicateVin, http.StatusBadRequest},
		{"дубликат номера", domain.ErrDuplicatePlate, http.StatusBadRequest},
		{"ошибка валидации", domain.ErrFutureYear, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockVehicleService)
			service.On("UpdateVehicle", mock.Anything, int64(42), mock.Anything).Return(tt.serviceErr)

			body, _ := json.Marshal(vehicle.CreateVehicleRequest{})
			req := httptest.NewRequest(http.MethodPut, "/api/v1/vehicles/42", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newTestRouter(service).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// TestVehicleHandler_DeleteVehicle тестирует удаление
func TestVehicleHandler_DeleteVehicle(t *testing.T) {
	t.Run("успешное удаление", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("DeleteVehicle", mock.Anything, int64(42)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/42", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("не найден", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("DeleteVehicle", mock.Anything, int64(42)).Return(domain.ErrVehicleNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/42", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestVehicleHandler_SearchVehicles тестирует поиск
func TestVehicleHandler_SearchVehicles(t *testing.T) {
	t.Run("успешный поиск", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("SearchVehicles", mock.Anything, "ABC", "licensePlate").
			Return([]*domain.Vehicle{testVehicle()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/search?term=ABC&type=licensePlate", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var vehicles []*domain.Vehicle
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
		assert.Len(t, vehicles, 1)
	})

	t.Run("невалидный тип поиска", func(t *testing.T) {
		service := new(MockVehicleService)
		service.On("SearchVehicles", mock.Anything, "ABC", "color").
			Return(nil, domain.ErrInvalidSearch)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/search?term=ABC&type=color", nil)
		w := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestVehicleHandler_UnclassifiedError проверяет, что внутренние
// ошибки не просачиваются к клиенту
func TestVehicleHandler_UnclassifiedError(t *testing.T) {
	service := new(MockVehicleService)
	service.On("GetVehicle", mock.Anything, int64(42)).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/42", nil)
	w := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
