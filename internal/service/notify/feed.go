package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

const defaultCapacity = 64

// Notifier surfaces operator-visible notices.
type Notifier interface {
	Notify(ctx context.Context, notice models.Notice)
}

// Feed buffers notices until the shell drains them. When full, the oldest
// notice is dropped.
type Feed struct {
	mu       sync.Mutex
	notices  []models.Notice
	capacity int
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeed creates a feed holding at most capacity notices.
func NewFeed(capacity int, logger *zap.Logger) *Feed {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{capacity: capacity, logger: logger, now: time.Now}
}

// Notify appends the notice to the feed.
func (f *Feed) Notify(_ context.Context, notice models.Notice) {
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = f.now().UTC()
	}

	f.mu.Lock()
	if len(f.notices) == f.capacity {
		f.notices = f.notices[1:]
	}
	f.notices = append(f.notices, notice)
	f.mu.Unlock()

	f.logger.Info("notice raised",
		zap.String("level", string(notice.Level)),
		zap.String("title", notice.Title),
		zap.String("message", notice.Message))
}

// Drain returns and clears every buffered notice, oldest first.
func (f *Feed) Drain() []models.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notices
	f.notices = nil
	if out == nil {
		return []models.Notice{}
	}
	return out
}
