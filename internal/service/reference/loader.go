package reference

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// Source fetches the lookup lists from the inventory service.
type Source interface {
	ListCategories(ctx context.Context) ([]models.ReferenceItem, error)
	ListEmployees(ctx context.Context) ([]models.ReferenceItem, error)
}

// Loader caches the category and employee lists. A reload replaces both lists
// together; a failed reload keeps the previous ones.
type Loader struct {
	source Source
	logger *zap.Logger
	group  singleflight.Group

	mu         sync.RWMutex
	categories models.ReferenceList
	employees  models.ReferenceList
}

// NewLoader wires a reference-data loader.
func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, logger: logger}
}

// EnsureLoaded fetches the lists unless they were already loaded.
func (l *Loader) EnsureLoaded(ctx context.Context) error {
	l.mu.RLock()
	loaded := l.categories.Loaded() && l.employees.Loaded()
	l.mu.RUnlock()
	if loaded {
		return nil
	}
	return l.Reload(ctx)
}

// Reload fetches both lists. Concurrent calls share one fetch.
func (l *Loader) Reload(ctx context.Context) error {
	_, err, _ := l.group.Do("reload", func() (interface{}, error) {
		categories, err := l.source.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		employees, err := l.source.ListEmployees(ctx)
		if err != nil {
			return nil, fmt.Errorf("load employees: %w", err)
		}

		l.mu.Lock()
		l.categories = models.NewReferenceList(categories)
		l.employees = models.NewReferenceList(employees)
		l.mu.Unlock()

		l.logger.Info("reference lists loaded",
			zap.Int("categories", len(categories)),
			zap.Int("employees", len(employees)))
		return nil, nil
	})
	if err != nil {
		l.logger.Warn("reference reload failed", zap.Error(err))
	}
	return err
}

// Categories returns the cached category list.
func (l *Loader) Categories() models.ReferenceList {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.categories
}

// Employees returns the cached employee list.
func (l *Loader) Employees() models.ReferenceList {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.employees
}
