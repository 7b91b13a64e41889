// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
	"github.com/smartgrocer/grocery-be/internal/pkg/config"
)

var _ ports.RemoteInventory = (*FakeRemote)(nil)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Remote: config.RemoteConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 2 * time.Second,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			PoolSize: 10,
		},
		Cache: config.CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Alerts: config.AlertsConfig{
			Recipient: "manager@test.local",
			SMTPHost:  "localhost",
			SMTPPort:  "587",
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8090",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestItem creates a test grocery item
func CreateTestItem(overrides ...func(*domain.Item)) *domain.Item {
	item := &domain.Item{
		ID:         1,
		Name:       "Test Basmati Rice",
		Category:   "Grains",
		Price:      decimal.NewFromInt(180),
		Quantity:   30,
		Perishable: false,
		Expiry:     "",
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CreateTestItems creates multiple test grocery items
func CreateTestItems(count int) []domain.Item {
	categories := []string{"Fruits", "Dairy", "Grains", "Vegetables", "Beverages"}

	items := make([]domain.Item, count)
	for i := 0; i < count; i++ {
		items[i] = *CreateTestItem(func(item *domain.Item) {
			item.ID = i + 1
			item.Name = fmt.Sprintf("Test Item %d", i+1)
			item.Category = categories[i%len(categories)]
			item.Price = decimal.NewFromInt(int64(50 + i*10))
			item.Quantity = 10 + i
		})
	}

	return items
}

// FakeRemote is an in-memory stand-in for the remote inventory service.
// Setting Down makes every call fail with domain.ErrRemoteUnavailable,
// mimicking a transport failure.
type FakeRemote struct {
	mu    sync.Mutex
	Items []domain.Item
	Down  bool

	// NextID is the id the next created item receives.
	NextID int
}

// NewFakeRemote builds a fake remote seeded with the given items.
func NewFakeRemote(items []domain.Item) *FakeRemote {
	maxID := 0
	for _, it := range items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	return &FakeRemote{
		Items:  append([]domain.Item(nil), items...),
		NextID: maxID + 1,
	}
}

// SetDown switches the fake between reachable and unreachable.
func (f *FakeRemote) SetDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Down = down
}

func (f *FakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return fmt.Errorf("ping: %w", domain.ErrRemoteUnavailable)
	}
	return nil
}

func (f *FakeRemote) FetchItems(ctx context.Context) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, fmt.Errorf("fetch items: %w", domain.ErrRemoteUnavailable)
	}
	return append([]domain.Item(nil), f.Items...), nil
}

func (f *FakeRemote) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, fmt.Errorf("create item: %w", domain.ErrRemoteUnavailable)
	}

	created := *item
	created.ID = f.NextID
	f.NextID++
	f.Items = append(f.Items, created)
	return &created, nil
}

func (f *FakeRemote) UpdateItem(ctx context.Context, id int, patch *domain.ItemPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return fmt.Errorf("update item: %w", domain.ErrRemoteUnavailable)
	}

	for i := range f.Items {
		if f.Items[i].ID == id {
			patch.Apply(&f.Items[i])
			return nil
		}
	}
	return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
}

func (f *FakeRemote) DeleteItem(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return fmt.Errorf("delete item: %w", domain.ErrRemoteUnavailable)
	}

	for i := range f.Items {
		if f.Items[i].ID == id {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
}

func (f *FakeRemote) SearchByName(ctx context.Context, query string) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, fmt.Errorf("search by name: %w", domain.ErrRemoteUnavailable)
	}

	var results []domain.Item
	q := strings.ToLower(query)
	for _, it := range f.Items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			results = append(results, it)
		}
	}
	return results, nil
}

func (f *FakeRemote) SearchByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, fmt.Errorf("search by category: %w", domain.ErrRemoteUnavailable)
	}

	var results []domain.Item
	for _, it := range f.Items {
		if strings.EqualFold(it.Category, category) {
			results = append(results, it)
		}
	}
	return results, nil
}
