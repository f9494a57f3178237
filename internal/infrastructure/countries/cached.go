package countries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/autolab/registry/internal/pkg/redis"
)

const (
	countriesCacheKey = "countries:all"
	countriesCacheTTL = 12 * time.Hour
)

// CachedClient добавляет кэширование списка стран поверх Client.
// Список почти статичен, а внешний API медленный и лимитирован
// по запросам, поэтому кэш с большим TTL.
type CachedClient struct {
	client Client
	cache  *redis.Client
}

// NewCachedClient создает кэширующую обертку над клиентом стран
func NewCachedClient(client Client, cache *redis.Client) *CachedClient {
	return &CachedClient{
		client: client,
		cache:  cache,
	}
}

// GetCountries возвращает список стран, по возможности из кэша
func (c *CachedClient) GetCountries(ctx context.Context) ([]Country, error) {
	// 1. Проверяем кэш
	cached, err := c.cache.Get(ctx, countriesCacheKey)
	if err == nil {
		var countries []Country
		if err := json.Unmarshal([]byte(cached), &countries); err == nil {
			return countries, nil
		}
		// Испорченную запись выбрасываем и идем к источнику
		_ = c.cache.Del(ctx, countriesCacheKey)
	}

	// 2. Cache miss - идем во внешний API
	countries, err := c.client.GetCountries(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш.
	// Ошибка записи в кэш не критична - игнорируем.
	if data, err := json.Marshal(countries); err == nil {
		_ = c.cache.Set(ctx, countriesCacheKey, data, countriesCacheTTL)
	}

	return countries, nil
}

// Health проверяет доступность внешнего сервиса напрямую, минуя кэш
func (c *CachedClient) Health(ctx context.Context) error {
	return c.client.Health(ctx)
}
