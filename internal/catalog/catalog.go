package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxAssetSize bounds a single upload (20 MiB).
const DefaultMaxAssetSize int64 = 20 << 20

// idPrefix marks catalog ids so they are recognizable in logs and URLs.
const idPrefix = "asset_"

// Catalog is the session-scoped asset catalog. Reads are served from
// memory; every mutation persists the whole catalog through the Store.
type Catalog struct {
	mu     sync.RWMutex
	assets []Asset // newest first

	// writeMu serializes mutations so persist-then-swap stays consistent.
	writeMu sync.Mutex

	store   Store
	blobs   BlobStore
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	maxSize int64
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the upload timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides id allocation. The generator returns the part
// after the "asset_" prefix.
func WithIDGenerator(next func() string) Option {
	return func(c *Catalog) {
		if next != nil {
			c.newID = next
		}
	}
}

// WithMaxAssetSize sets the upload size limit.
// Panics if size <= 0.
func WithMaxAssetSize(size int64) Option {
	if size <= 0 {
		panic("catalog: max asset size must be positive")
	}
	return func(c *Catalog) {
		c.maxSize = size
	}
}

// Open loads the persisted catalog and returns a ready Catalog.
func Open(ctx context.Context, store Store, blobs BlobStore, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		store:   store,
		blobs:   blobs,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		newID:   uuid.NewString,
		maxSize: DefaultMaxAssetSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	assets, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreLoad, err)
	}
	c.assets = assets
	c.logger.Debug("asset catalog loaded", "count", len(assets))
	return c, nil
}

// Register stores data as a new asset under displayName and persists the
// catalog. The new asset is listed first.
func (c *Catalog) Register(ctx context.Context, data []byte, displayName string) (Asset, error) {
	if len(data) == 0 {
		return Asset{}, ErrEmptyAsset
	}
	if int64(len(data)) > c.maxSize {
		return Asset{}, fmt.Errorf("%w: %d bytes (max %d)", ErrAssetTooLarge, len(data), c.maxSize)
	}

	p, err := probeImage(data)
	if err != nil {
		return Asset{}, err
	}
	if p.width == 0 || p.height == 0 {
		c.logger.Debug("image dimensions unavailable", "mediaType", p.mediaType)
	}

	id := idPrefix + c.newID()
	asset := Asset{
		ID:          id,
		DisplayName: displayNameFor(displayName, id, p.extension),
		MediaType:   p.mediaType,
		Size:        int64(len(data)),
		UploadedAt:  c.now().UTC(),
		Width:       p.width,
		Height:      p.height,
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	locator, err := c.blobs.Put(ctx, id, data, p.extension)
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrBlobWrite, err)
	}
	if locator == "" {
		c.releaseBlob(ctx, locator)
		return Asset{}, ErrInvalidLocator
	}
	asset.Locator = locator

	current := c.snapshot()
	next := make([]Asset, 0, len(current)+1)
	next = append(next, asset)
	next = append(next, current...)

	if err := c.store.Save(ctx, next); err != nil {
		c.releaseBlob(ctx, locator)
		return Asset{}, fmt.Errorf("%w: %v", ErrStoreSave, err)
	}
	c.swap(next)

	c.logger.Info("asset registered", "id", id, "name", asset.DisplayName, "mediaType", asset.MediaType)
	return asset, nil
}

// Release removes an asset and invalidates its locator. Unknown ids are a
// no-op.
func (c *Catalog) Release(ctx context.Context, id string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	current := c.snapshot()
	i := slices.IndexFunc(current, func(a Asset) bool { return a.ID == id })
	if i < 0 {
		return nil
	}
	removed := current[i]
	next := slices.Delete(slices.Clone(current), i, i+1)

	if err := c.store.Save(ctx, next); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreSave, err)
	}
	c.swap(next)
	c.releaseBlob(ctx, removed.Locator)

	c.logger.Info("asset released", "id", id, "name", removed.DisplayName)
	return nil
}

// List returns a copy of the catalog, newest first.
func (c *Catalog) List() []Asset {
	return c.snapshot()
}

// Len returns the number of registered assets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.assets)
}

// Get returns the asset with the given id.
func (c *Catalog) Get(id string) (Asset, bool) {
	return c.find(func(a Asset) bool { return a.ID == id })
}

// Lookup returns the newest asset registered under displayName.
func (c *Catalog) Lookup(displayName string) (Asset, bool) {
	return c.find(func(a Asset) bool { return a.DisplayName == displayName })
}

// ByLocator returns the asset owning locator.
func (c *Catalog) ByLocator(locator string) (Asset, bool) {
	if locator == "" {
		return Asset{}, false
	}
	return c.find(func(a Asset) bool { return a.Locator == locator })
}

// Names maps display names to locators. When names collide the newest
// asset wins. Assets without a locator are skipped.
func (c *Catalog) Names() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make(map[string]string, len(c.assets))
	for _, a := range c.assets {
		if a.Locator == "" {
			continue
		}
		if _, seen := names[a.DisplayName]; !seen {
			names[a.DisplayName] = a.Locator
		}
	}
	return names
}

// Resolve maps a literal image reference to a locator by display name.
func (c *Catalog) Resolve(src string) (string, bool) {
	a, ok := c.Lookup(src)
	if !ok || a.Locator == "" {
		return "", false
	}
	return a.Locator, true
}

// ReadBlob returns the bytes and media type behind a catalog reference,
// which may be a display name or a locator.
func (c *Catalog) ReadBlob(ctx context.Context, ref string) ([]byte, string, error) {
	a, ok := c.Lookup(ref)
	if !ok {
		a, ok = c.ByLocator(ref)
	}
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrAssetNotFound, ref)
	}

	data, err := c.blobs.Get(ctx, a.Locator)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrBlobRead, a.ID, err)
	}
	mediaType := a.MediaType
	if mediaType == "" {
		mediaType = DetectMediaType(data)
	}
	return data, mediaType, nil
}

func (c *Catalog) find(match func(Asset) bool) (Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.assets {
		if match(a) {
			return a, true
		}
	}
	return Asset{}, false
}

func (c *Catalog) snapshot() []Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.assets)
}

func (c *Catalog) swap(next []Asset) {
	c.mu.Lock()
	c.assets = next
	c.mu.Unlock()
}

// releaseBlob deletes a blob and logs failures. Callers have already
// dropped the catalog entry, so there is nothing left to roll back.
func (c *Catalog) releaseBlob(ctx context.Context, locator string) {
	if locator == "" {
		return
	}
	if err := c.blobs.Delete(ctx, locator); err != nil {
		c.logger.Warn("releasing asset blob", "locator", locator, "error", err)
	}
}

// displayNameFor derives the name markup refers to. Given names are kept
// as typed, since designs cite them literally.
func displayNameFor(given, id, ext string) string {
	if name := strings.TrimSpace(given); name != "" {
		return name
	}
	short := strings.TrimPrefix(id, idPrefix)
	if len(short) > 8 {
		short = short[:8]
	}
	return "image-" + short + ext
}
