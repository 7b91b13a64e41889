// internal/core/services/inventory.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
	"github.com/smartgrocer/grocery-be/internal/workers"
)

// TaskEnqueuer is the subset of asynq.Client the service needs to hand off
// background work.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// statsCacheKey is invalidated after every inventory mutation so dashboard
// reads never serve stale statistics.
const statsCacheKey = "dash:stats"

// InventoryService is the single source of truth for items. It mirrors the
// remote inventory service while reachable and degrades to a local in-memory
// copy seeded with sample data otherwise. Once a request fails at the
// transport level the service stays offline until Probe is called again.
type InventoryService struct {
	remote ports.RemoteInventory
	cache  ports.CacheRepository // optional
	tasks  TaskEnqueuer          // optional
	logger *slog.Logger

	mu    sync.RWMutex
	mode  ports.Mode
	items []domain.Item
	stats domain.InventoryStats
}

// Statically assert that *InventoryService implements the InventoryStore interface.
var _ ports.InventoryStore = (*InventoryService)(nil)

// NewInventoryService creates the store in offline mode with the built-in
// seed dataset. Call Probe to attempt the initial remote sync.
func NewInventoryService(remote ports.RemoteInventory, cache ports.CacheRepository, tasks TaskEnqueuer, logger *slog.Logger) *InventoryService {
	items := domain.SeedItems()
	return &InventoryService{
		remote: remote,
		cache:  cache,
		tasks:  tasks,
		logger: logger.With(slog.String("service", "inventory")),
		mode:   ports.ModeOffline,
		items:  items,
		stats:  domain.ComputeStats(items),
	}
}

// Probe runs the reachability check against the remote service and, on
// success, replaces the local copy with the remote item list. This is the
// only path back to online mode.
func (s *InventoryService) Probe(ctx context.Context) ports.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.remote.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "remote service unreachable, using offline fallback",
			slog.String("error", err.Error()))
		s.goOfflineLocked(ctx)
		return s.mode
	}

	s.mode = ports.ModeOnline
	if err := s.refreshLocked(ctx); err != nil {
		s.logger.WarnContext(ctx, "initial fetch failed after successful probe",
			slog.String("error", err.Error()))
		return s.mode
	}

	s.logger.InfoContext(ctx, "connected to remote inventory service",
		slog.Int("items", len(s.items)))
	return s.mode
}

// Mode returns the current connectivity mode.
func (s *InventoryService) Mode() ports.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// List returns all items. Online it fetches from the remote service,
// degrading to the local copy (and flipping offline) on transport failure.
func (s *InventoryService) List(ctx context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ports.ModeOnline {
		if err := s.refreshLocked(ctx); err != nil {
			s.logger.WarnContext(ctx, "list fetch failed, serving local copy",
				slog.String("error", err.Error()))
		}
	}
	return s.copyItemsLocked(), nil
}

// Get returns a single item by id from the current local copy.
func (s *InventoryService) Get(ctx context.Context, id int) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.findLocked(id)
	if item == nil {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	out := *item
	return &out, nil
}

// Create adds a new item. Online it POSTs to the remote service and re-fetches
// the full list so the server-assigned id is reflected before returning;
// offline it assigns max(ids, 0)+1 locally.
func (s *InventoryService) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ports.ModeOnline {
		created, err := s.remote.CreateItem(ctx, item)
		if err != nil {
			if errors.Is(err, domain.ErrRemoteUnavailable) {
				s.goOfflineLocked(ctx)
			}
			return nil, fmt.Errorf("failed to create item: %w", err)
		}
		if err := s.refreshLocked(ctx); err != nil {
			return nil, fmt.Errorf("item created but re-fetch failed: %w", err)
		}
		s.afterMutationLocked(ctx, created)
		s.logger.InfoContext(ctx, "item created",
			slog.Int("id", created.ID),
			slog.String("name", created.Name))
		return created, nil
	}

	item.ID = s.nextIDLocked()
	s.items = append(s.items, *item)
	s.afterMutationLocked(ctx, item)
	s.logger.InfoContext(ctx, "item created offline",
		slog.Int("id", item.ID),
		slog.String("name", item.Name))

	out := *item
	return &out, nil
}

// Update merges a partial patch into the item with the given id.
func (s *InventoryService) Update(ctx context.Context, id int, patch *domain.ItemPatch) (*domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ports.ModeOnline {
		if err := s.remote.UpdateItem(ctx, id, patch); err != nil {
			if errors.Is(err, domain.ErrRemoteUnavailable) {
				s.goOfflineLocked(ctx)
			}
			return nil, fmt.Errorf("failed to update item %d: %w", id, err)
		}
		if err := s.refreshLocked(ctx); err != nil {
			return nil, fmt.Errorf("item updated but re-fetch failed: %w", err)
		}
	} else {
		item := s.findLocked(id)
		if item == nil {
			return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
		}
		patch.Apply(item)
	}

	updated := s.findLocked(id)
	if updated == nil {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	s.afterMutationLocked(ctx, updated)
	s.logger.InfoContext(ctx, "item updated", slog.Int("id", id))

	out := *updated
	return &out, nil
}

// Delete removes the item with the given id.
func (s *InventoryService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ports.ModeOnline {
		if err := s.remote.DeleteItem(ctx, id); err != nil {
			if errors.Is(err, domain.ErrRemoteUnavailable) {
				s.goOfflineLocked(ctx)
			}
			return fmt.Errorf("failed to delete item %d: %w", id, err)
		}
		if err := s.refreshLocked(ctx); err != nil {
			return fmt.Errorf("item deleted but re-fetch failed: %w", err)
		}
	} else {
		if s.findLocked(id) == nil {
			return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
		}
		kept := s.items[:0]
		for _, item := range s.items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		s.items = kept
	}

	s.afterMutationLocked(ctx, nil)
	s.logger.InfoContext(ctx, "item deleted", slog.Int("id", id))
	return nil
}

// SearchByName filters items by case-insensitive substring match on name.
// A remote transport failure falls back to the local filter and flips the
// store offline.
func (s *InventoryService) SearchByName(ctx context.Context, query string) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ports.ModeOnline {
		results, err := s.remote.SearchByName(ctx, query)
		if err == nil {
			return results, nil
		}
		s.logger.WarnContext(ctx, "remote name search failed, filtering locally",
			slog.String("query", query),
			slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			s.goOfflineLocked(ctx)
		}
	}

	needle := strings.ToLower(query)
	var results []domain.Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			results = append(results, item)
		}
	}
	return results, nil
}

// SearchByCategory filters items by exact category match (case-insensitive,
// as the remote service implements it).
func (s *InventoryService) SearchByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ports.ModeOnline {
		results, err := s.remote.SearchByCategory(ctx, category)
		if err == nil {
			return results, nil
		}
		s.logger.WarnContext(ctx, "remote category search failed, filtering locally",
			slog.String("category", category),
			slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			s.goOfflineLocked(ctx)
		}
	}

	var results []domain.Item
	for _, item := range s.items {
		if strings.EqualFold(item.Category, category) {
			results = append(results, item)
		}
	}
	return results, nil
}

// Stats returns the derived statistics for the current local copy.
func (s *InventoryService) Stats() domain.InventoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// LowStock returns all items at or below the low stock threshold.
func (s *InventoryService) LowStock(ctx context.Context) ([]domain.Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var low []domain.Item
	for _, item := range items {
		if item.Quantity <= domain.LowStockThreshold {
			low = append(low, item)
		}
	}
	return low, nil
}

// ExpiringWithin returns perishable items whose expiry date falls within the
// next `days` days.
func (s *InventoryService) ExpiringWithin(ctx context.Context, days int) ([]domain.Item, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days cannot be negative", domain.ErrValidation)
	}
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var expiring []domain.Item
	for _, item := range items {
		if item.ExpiresWithin(now, days) {
			expiring = append(expiring, item)
		}
	}
	return expiring, nil
}

// CommitPurchase decrements on-hand quantities for the given cart lines.
// Stock is re-checked under the lock before any decrement is applied, so a
// shortfall rejects the whole purchase without partial mutation.
func (s *InventoryService) CommitPurchase(ctx context.Context, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range lines {
		line := &lines[i]
		item := s.findLocked(line.ID)
		if item == nil {
			return fmt.Errorf("%w: id %d", domain.ErrNotFound, line.ID)
		}
		if item.Quantity < line.CartQuantity {
			return fmt.Errorf("%w: %s has %d on hand, %d requested",
				domain.ErrInsufficientStock, item.Name, item.Quantity, line.CartQuantity)
		}
	}

	for i := range lines {
		line := &lines[i]
		item := s.findLocked(line.ID)
		item.Quantity -= line.CartQuantity
		s.maybeAlertLowStockLocked(ctx, item)
	}

	s.afterMutationLocked(ctx, nil)
	s.logger.InfoContext(ctx, "purchase committed", slog.Int("lines", len(lines)))
	return nil
}

// Internal helpers. All assume s.mu is held.

func (s *InventoryService) refreshLocked(ctx context.Context) error {
	items, err := s.remote.FetchItems(ctx)
	if err != nil {
		s.goOfflineLocked(ctx)
		return err
	}
	s.items = items
	s.stats = domain.ComputeStats(s.items)
	return nil
}

func (s *InventoryService) goOfflineLocked(ctx context.Context) {
	if s.mode == ports.ModeOffline {
		return
	}
	s.mode = ports.ModeOffline
	s.logger.WarnContext(ctx, "switched to offline mode")
}

func (s *InventoryService) findLocked(id int) *domain.Item {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *InventoryService) nextIDLocked() int {
	max := 0
	for i := range s.items {
		if s.items[i].ID > max {
			max = s.items[i].ID
		}
	}
	return max + 1
}

func (s *InventoryService) copyItemsLocked() []domain.Item {
	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out
}

// afterMutationLocked recomputes statistics, invalidates cached dashboard
// data, and raises a low-stock alert for the touched item if warranted.
func (s *InventoryService) afterMutationLocked(ctx context.Context, touched *domain.Item) {
	s.stats = domain.ComputeStats(s.items)

	if s.cache != nil {
		if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate stats cache",
				slog.String("error", err.Error()))
		}
	}

	if touched != nil {
		s.maybeAlertLowStockLocked(ctx, touched)
	}
}

func (s *InventoryService) maybeAlertLowStockLocked(ctx context.Context, item *domain.Item) {
	if s.tasks == nil || item.Quantity > domain.LowStockThreshold {
		return
	}

	task, err := workers.NewLowStockAlertTask(item)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build low stock alert task",
			slog.String("error", err.Error()))
		return
	}
	if _, err := s.tasks.EnqueueContext(ctx, task); err != nil {
		// Alerting is best effort, the mutation itself already succeeded.
		s.logger.WarnContext(ctx, "failed to enqueue low stock alert",
			slog.Int("id", item.ID),
			slog.String("error", err.Error()))
	}
}
