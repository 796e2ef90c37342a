package station

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// InboxPicker picks the newest photo dropped into an inbox directory (by a
// tethered camera or a sync client) and moves it into the photo store.
type InboxPicker struct {
	inboxDir string
	storeDir string
	logger   *zap.Logger
}

// NewInboxPicker creates both directories if needed.
func NewInboxPicker(inboxDir, storeDir string, logger *zap.Logger) (*InboxPicker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range []string{inboxDir, storeDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create photo directory: %w", err)
		}
	}
	return &InboxPicker{inboxDir: inboxDir, storeDir: storeDir, logger: logger}, nil
}

// Launch picks the most recent still image. An empty inbox is a cancelled pick.
func (p *InboxPicker) Launch(ctx context.Context, opts models.PickerOptions) (models.PickResult, error) {
	if opts.MediaTypes != "" && opts.MediaTypes != models.MediaTypeImages {
		return models.PickResult{Cancelled: true}, nil
	}

	newest, err := p.newestImage()
	if err != nil {
		return models.PickResult{}, err
	}
	if newest == "" {
		return models.PickResult{Cancelled: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return models.PickResult{}, err
	}

	key, err := p.store(newest)
	if err != nil {
		return models.PickResult{}, err
	}

	target, err := p.safeJoin(key)
	if err != nil {
		return models.PickResult{}, err
	}

	uri := (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String()
	p.logger.Info("photo picked from inbox", zap.String("source", filepath.Base(newest)), zap.String("uri", uri))
	return models.PickResult{Assets: []models.PickedAsset{{URI: uri}}}, nil
}

func (p *InboxPicker) newestImage() (string, error) {
	entries, err := os.ReadDir(p.inboxDir)
	if err != nil {
		return "", fmt.Errorf("failed to read inbox: %w", err)
	}

	var newest string
	var newestMod int64
	for _, entry := range entries {
		if entry.IsDir() || !isImage(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(p.inboxDir, entry.Name())
			newestMod = mod
		}
	}
	return newest, nil
}

// store copies the source into the store under a fresh name and removes it
// from the inbox.
func (p *InboxPicker) store(source string) (string, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(source))
	target, err := p.safeJoin(key)
	if err != nil {
		return "", err
	}

	in, err := os.Open(source)
	if err != nil {
		return "", fmt.Errorf("failed to open inbox photo: %w", err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		if rerr := os.Remove(target); rerr != nil {
			p.logger.Error("failed to remove file after write error", zap.Error(rerr))
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		if rerr := os.Remove(target); rerr != nil {
			p.logger.Error("failed to remove file after close error", zap.Error(rerr))
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Remove(source); err != nil {
		p.logger.Warn("failed to clear inbox photo", zap.Error(err))
	}
	return key, nil
}

// safeJoin resolves key relative to the store and rejects directory traversal.
func (p *InboxPicker) safeJoin(key string) (string, error) {
	absBase, err := filepath.Abs(p.storeDir)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(p.storeDir, key))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".heic", ".webp":
		return true
	default:
		return false
	}
}
