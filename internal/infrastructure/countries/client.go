package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/autolab/registry/internal/domain"
)

// Country - страна из внешнего справочника
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Iso2 string `json:"iso2"`
}

// Client - интерфейс для работы с внешним справочником стран
type Client interface {
	// GetCountries возвращает полный список стран
	GetCountries(ctx context.Context) ([]Country, error)

	// Health проверяет доступность сервиса
	Health(ctx context.Context) error
}

// httpClient - HTTP реализация клиента countrystatecity API
type httpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient создает новый HTTP клиент справочника стран.
// Таймаут короткий: сервис стоит на пути создания автомобиля,
// и долгое ожидание хуже быстрого отказа.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// GetCountries запрашивает список стран с retry логикой
func (c *httpClient) GetCountries(ctx context.Context) ([]Country, error) {
	var countries []Country
	var lastErr error

	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Линейная задержка между попытками
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrCountryTimeout, ctx.Err())
			case <-time.After(backoff):
			}
		}

		countries, lastErr = c.fetchCountries(ctx)
		if lastErr == nil {
			return countries, nil
		}

		// Невалидный ответ не станет валидным при повторе
		if !errors.Is(lastErr, domain.ErrCountryUnavailable) {
			break
		}
	}

	return nil, lastErr
}

func (c *httpClient) fetchCountries(ctx context.Context) ([]Country, error) {
	url := fmt.Sprintf("%s/v1/countries", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-CSCAPI-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrCountryTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCountryUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCountryUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrCountryUnavailable, resp.StatusCode)
	}

	var countries []Country
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCountryParse, err)
	}

	return countries, nil
}

// Health проверяет доступность справочника одним запросом без retry
func (c *httpClient) Health(ctx context.Context) error {
	_, err := c.fetchCountries(ctx)
	return err
}

// isClientTimeout распознает таймаут http.Client (он приходит как
// *url.Error с Timeout() == true, а не как context.DeadlineExceeded)
func isClientTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
