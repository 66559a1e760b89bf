package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-designstudio/internal/catalog"
)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%04d", n)
	}
}

func openCatalog(t *testing.T, store catalog.Store, blobs catalog.BlobStore, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	opts = append([]catalog.Option{catalog.WithIDGenerator(sequentialIDs())}, opts...)
	c, err := catalog.Open(context.Background(), store, blobs, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// TestRegister - Upload handling
// ---------------------------------------------------------------------------

func TestRegister(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := catalog.NewMemoryStore()
	c := openCatalog(t, store, catalog.DataBlobStore{}, catalog.WithClock(func() time.Time { return stamp }))

	a, err := c.Register(context.Background(), pngBytes(t, 4, 3), "  logo  ")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if a.ID != "asset_0001" {
		t.Errorf("ID = %q, want asset_0001", a.ID)
	}
	if a.DisplayName != "logo" {
		t.Errorf("DisplayName = %q, want logo", a.DisplayName)
	}
	if a.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png", a.MediaType)
	}
	if a.Width != 4 || a.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 4x3", a.Width, a.Height)
	}
	if !strings.HasPrefix(a.Locator, "data:image/png;base64,") {
		t.Errorf("Locator = %q, want data URI", a.Locator)
	}
	if !a.UploadedAt.Equal(stamp) {
		t.Errorf("UploadedAt = %v, want %v", a.UploadedAt, stamp)
	}
	if store.Saves() != 1 {
		t.Errorf("Saves = %d, want 1", store.Saves())
	}

	persisted, _ := store.Load(context.Background())
	if len(persisted) != 1 || persisted[0].ID != a.ID {
		t.Errorf("persisted = %+v, want the new asset", persisted)
	}
}

func TestRegister_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		opts    []catalog.Option
		wantErr error
	}{
		{"empty data", nil, nil, catalog.ErrEmptyAsset},
		{"not an image", []byte("%PDF-1.7\n1 0 obj\n"), nil, catalog.ErrNotImage},
		{"plain text", []byte("hello world"), nil, catalog.ErrNotImage},
		{"too large", []byte("0123456789"), []catalog.Option{catalog.WithMaxAssetSize(4)}, catalog.ErrAssetTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := catalog.NewMemoryStore()
			c := openCatalog(t, store, catalog.DataBlobStore{}, tt.opts...)
			_, err := c.Register(context.Background(), tt.data, "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register error = %v, want %v", err, tt.wantErr)
			}
			if c.Len() != 0 || store.Saves() != 0 {
				t.Errorf("catalog mutated on rejection: len=%d saves=%d", c.Len(), store.Saves())
			}
		})
	}
}

func TestRegister_UndecodableDimensions(t *testing.T) {
	t.Parallel()

	c := openCatalog(t, catalog.NewMemoryStore(), catalog.DataBlobStore{})
	a, err := c.Register(context.Background(), []byte(svgBytes), "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if a.HasDimensions() {
		t.Errorf("expected unset dimensions for SVG, got %dx%d", a.Width, a.Height)
	}
	if a.DisplayName != "image-0001.svg" {
		t.Errorf("DisplayName = %q, want image-0001.svg", a.DisplayName)
	}
}

func TestRegister_NewestFirst(t *testing.T) {
	t.Parallel()

	c := openCatalog(t, catalog.NewMemoryStore(), catalog.DataBlobStore{})
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := c.Register(ctx, pngBytes(t, 1, 1), name); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	var got []string
	for _, a := range c.List() {
		got = append(got, a.DisplayName)
	}
	if strings.Join(got, ",") != "c,b,a" {
		t.Errorf("List order = %v, want [c b a]", got)
	}
}

func TestRegister_PersistFailureLeavesCatalogUnchanged(t *testing.T) {
	t.Parallel()

	store := &failingStore{}
	blobs := &recordingBlobs{}
	c := openCatalog(t, store, blobs)
	ctx := context.Background()

	first, err := c.Register(ctx, pngBytes(t, 1, 1), "first")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	store.arm()
	_, err = c.Register(ctx, pngBytes(t, 2, 2), "second")
	if !errors.Is(err, catalog.ErrStoreSave) {
		t.Fatalf("expected ErrStoreSave, got %v", err)
	}

	list := c.List()
	if len(list) != 1 || list[0].ID != first.ID {
		t.Errorf("List = %+v, want only the first asset", list)
	}
	if len(blobs.deletions()) != 1 {
		t.Errorf("expected the orphaned blob to be released, got %v", blobs.deletions())
	}
}

func TestRegister_EmptyLocator(t *testing.T) {
	t.Parallel()

	c := openCatalog(t, catalog.NewMemoryStore(), &recordingBlobs{emptyPut: true})
	_, err := c.Register(context.Background(), pngBytes(t, 1, 1), "logo")
	if !errors.Is(err, catalog.ErrInvalidLocator) {
		t.Fatalf("expected ErrInvalidLocator, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty catalog, got %d", c.Len())
	}
}

// ---------------------------------------------------------------------------
// TestRelease - Removal and locator invalidation
// ---------------------------------------------------------------------------

func TestRelease(t *testing.T) {
	t.Parallel()

	blobs := &recordingBlobs{}
	store := catalog.NewMemoryStore()
	c := openCatalog(t, store, blobs)
	ctx := context.Background()

	a, err := c.Register(ctx, pngBytes(t, 1, 1), "logo")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := c.Release(ctx, a.ID); err != nil {
		t.Fatalf("Release: %v", err)
	}

	for _, got := range c.List() {
		if got.ID == a.ID {
			t.Fatalf("released asset %s still listed", a.ID)
		}
	}
	if _, ok := c.Lookup("logo"); ok {
		t.Error("released asset still resolvable")
	}
	if d := blobs.deletions(); len(d) != 1 || d[0] != a.Locator {
		t.Errorf("deletions = %v, want [%s]", d, a.Locator)
	}
	if persisted, _ := store.Load(ctx); len(persisted) != 0 {
		t.Errorf("persisted = %+v, want empty", persisted)
	}
}

func TestRelease_UnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	store := catalog.NewMemoryStore()
	c := openCatalog(t, store, catalog.DataBlobStore{})
	if err := c.Release(context.Background(), "asset_missing"); err != nil {
		t.Fatalf("Release unknown id: %v", err)
	}
	if store.Saves() != 0 {
		t.Errorf("Saves = %d, want 0", store.Saves())
	}
}

func TestRelease_BlobErrorIsNotReturned(t *testing.T) {
	t.Parallel()

	blobs := &recordingBlobs{deleteErr: errors.New("gone")}
	c := openCatalog(t, catalog.NewMemoryStore(), blobs)
	ctx := context.Background()

	a, err := c.Register(ctx, pngBytes(t, 1, 1), "logo")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := c.Release(ctx, a.ID); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestRelease_PersistFailureKeepsEntry(t *testing.T) {
	t.Parallel()

	store := &failingStore{}
	blobs := &recordingBlobs{}
	c := openCatalog(t, store, blobs)
	ctx := context.Background()

	a, err := c.Register(ctx, pngBytes(t, 1, 1), "logo")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	store.arm()
	if err := c.Release(ctx, a.ID); !errors.Is(err, catalog.ErrStoreSave) {
		t.Fatalf("expected ErrStoreSave, got %v", err)
	}
	if _, ok := c.Get(a.ID); !ok {
		t.Error("entry removed despite failed persist")
	}
	if len(blobs.deletions()) != 0 {
		t.Error("blob released despite failed persist")
	}
}

// ---------------------------------------------------------------------------
// TestLookup / TestNames - Resolution
// ---------------------------------------------------------------------------

func TestLookup_LastWriteWins(t *testing.T) {
	t.Parallel()

	c := openCatalog(t, catalog.NewMemoryStore(), catalog.DataBlobStore{})
	ctx := context.Background()

	if _, err := c.Register(ctx, pngBytes(t, 1, 1), "logo"); err != nil {
		t.Fatal(err)
	}
	newer, err := c.Register(ctx, pngBytes(t, 2, 2), "logo")
	if err != nil {
		t.Fatal(err)
	}

	got, ok := c.Lookup("logo")
	if !ok || got.ID != newer.ID {
		t.Errorf("Lookup = %+v, want newest %s", got, newer.ID)
	}
	if loc := c.Names()["logo"]; loc != newer.Locator {
		t.Errorf("Names[logo] = %q, want newest locator", loc)
	}
	if loc, ok := c.Resolve("logo"); !ok || loc != newer.Locator {
		t.Errorf("Resolve = %q, %v", loc, ok)
	}
	if _, ok := c.Resolve("other"); ok {
		t.Error("Resolve(other) should miss")
	}
}

func TestReadBlob(t *testing.T) {
	t.Parallel()

	c := openCatalog(t, catalog.NewMemoryStore(), catalog.DataBlobStore{})
	ctx := context.Background()
	data := pngBytes(t, 2, 2)

	a, err := c.Register(ctx, data, "logo")
	if err != nil {
		t.Fatal(err)
	}

	for _, ref := range []string{"logo", a.Locator} {
		got, mediaType, err := c.ReadBlob(ctx, ref)
		if err != nil {
			t.Fatalf("ReadBlob(%.20q): %v", ref, err)
		}
		if string(got) != string(data) || mediaType != "image/png" {
			t.Errorf("ReadBlob(%.20q) = %d bytes %q", ref, len(got), mediaType)
		}
	}

	if _, _, err := c.ReadBlob(ctx, "missing"); !errors.Is(err, catalog.ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestOpen - Load on start
// ---------------------------------------------------------------------------

func TestOpen_LoadsPersistedCatalog(t *testing.T) {
	t.Parallel()

	seed := catalog.Asset{ID: "asset_seed", DisplayName: "hero", Locator: "data:image/png;base64,AA=="}
	c := openCatalog(t, catalog.NewMemoryStore(seed), catalog.DataBlobStore{})

	if got, ok := c.Lookup("hero"); !ok || got.ID != "asset_seed" {
		t.Errorf("Lookup(hero) = %+v, %v", got, ok)
	}
}

type brokenStore struct{ catalog.MemoryStore }

func (*brokenStore) Load(context.Context) ([]catalog.Asset, error) {
	return nil, errors.New("corrupt")
}

func TestOpen_LoadFailure(t *testing.T) {
	t.Parallel()

	_, err := catalog.Open(context.Background(), &brokenStore{}, catalog.DataBlobStore{})
	if !errors.Is(err, catalog.ErrStoreLoad) {
		t.Fatalf("expected ErrStoreLoad, got %v", err)
	}
}

func TestWithMaxAssetSize_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-positive size")
		}
	}()
	catalog.WithMaxAssetSize(0)
}

func TestConcurrentRegister(t *testing.T) {
	t.Parallel()

	store := catalog.NewMemoryStore()
	c, err := catalog.Open(context.Background(), store, catalog.DataBlobStore{})
	if err != nil {
		t.Fatal(err)
	}
	data := pngBytes(t, 1, 1)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Register(context.Background(), data, fmt.Sprintf("img-%d", i)); err != nil {
				t.Errorf("Register: %v", err)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 16 {
		t.Errorf("Len = %d, want 16", c.Len())
	}
	persisted, _ := store.Load(context.Background())
	if len(persisted) != 16 {
		t.Errorf("persisted %d assets, want 16", len(persisted))
	}
}
