package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ctxPkg "github.com/yeisme/geovault/pkg/context"
	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/storage"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	"github.com/yeisme/geovault/pkg/internal/storage/db"
	"github.com/yeisme/geovault/pkg/internal/storage/kv"
	"github.com/yeisme/geovault/pkg/internal/types"
	"github.com/yeisme/geovault/pkg/queue"
)

// newTestContext wires an in-memory catalog, content store, KV cache and
// bus into a request context.
func newTestContext(t *testing.T) context.Context {
	t.Helper()

	return newTestContextWithStore(t, content.NewMemoryStore())
}

func newTestContextWithStore(t *testing.T, store content.Store) context.Context {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	client := &db.Client{DB: gdb}
	if err := client.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mgr := storage.NewManager(
		client,
		store,
		&kv.Client{KVStore: kv.NewMemoryKV()},
		queue.NewBus(),
	)

	return ctxPkg.WithStorageManager(context.Background(), mgr)
}

// brokenStore fails every write, simulating an unreachable content backend.
type brokenStore struct {
	content.Store
}

func (b *brokenStore) Write(ctx context.Context, path string, data []byte) error {
	return errors.New("backend unavailable")
}

// collectionBytes builds a valid n-feature collection, with any extra
// top-level keys merged in.
func collectionBytes(t *testing.T, n int, extra map[string]any) []byte {
	t.Helper()

	features := make([]any, 0, n)
	for i := 0; i < n; i++ {
		features = append(features, map[string]any{
			"type": "Feature",
			"geometry": map[string]any{
				"type":        "Point",
				"coordinates": []any{9.19 + float64(i)/100, 45.4642},
			},
			"properties": map[string]any{
				"name":        fmt.Sprintf("Fontana %d", i),
				"description": "fontana storica",
				"category":    "Enti",
				"city":        "Milano",
			},
		})
	}

	doc := map[string]any{"type": "FeatureCollection", "features": features}
	for k, v := range extra {
		doc[k] = v
	}

	raw, err := sonic.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	return raw
}

func createFontane(t *testing.T, ctx context.Context) *types.DatasetResponse {
	t.Helper()

	svc := service.NewDatasetService(ctx)

	resp, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Fontane",
		ContentID:    "fontane.geojson",
		CategoryName: "Enti",
		Content:      collectionBytes(t, 3, nil),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	return resp
}

func TestCreateDataset(t *testing.T) {
	ctx := newTestContext(t)
	resp := createFontane(t, ctx)

	if resp.Version != 1 {
		t.Errorf("expected version 1, got %d", resp.Version)
	}

	if resp.Name != "Fontane" {
		t.Errorf("expected name Fontane, got %q", resp.Name)
	}

	if resp.CategoryName != "Enti" {
		t.Errorf("expected category Enti, got %q", resp.CategoryName)
	}

	if resp.Icon != model.DefaultIcon {
		t.Errorf("expected default icon, got %q", resp.Icon)
	}

	// content file lives at {folder}/{contentID}
	store := ctxPkg.GetContentStore(ctx)

	exists, err := store.Exists(ctx, "fontane/fontane.geojson")
	if err != nil || !exists {
		t.Errorf("expected content file at fontane/fontane.geojson (exists=%v, err=%v)", exists, err)
	}

	// exactly one audit entry, created, 0 -> 1
	mods, err := service.NewModificationService(ctx).ListByDataset(ctx, resp.ID)
	if err != nil {
		t.Fatalf("list modifications: %v", err)
	}

	if len(mods.Modifications) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(mods.Modifications))
	}

	entry := mods.Modifications[0]
	if entry.Action != model.ActionCreated || entry.VersionBefore != 0 || entry.VersionAfter != 1 {
		t.Errorf("unexpected initial audit entry: %+v", entry)
	}

	if entry.Actor != "alice" {
		t.Errorf("expected actor alice, got %q", entry.Actor)
	}
}

func TestCreateDuplicates(t *testing.T) {
	ctx := newTestContext(t)
	createFontane(t, ctx)

	svc := service.NewDatasetService(ctx)

	_, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Fontane",
		ContentID:    "altre-fontane.geojson",
		CategoryName: "Enti",
		Content:      collectionBytes(t, 1, nil),
	})
	if !errors.Is(err, service.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	_, err = svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Fontane 2",
		ContentID:    "fontane.geojson",
		CategoryName: "Enti",
		Content:      collectionBytes(t, 1, nil),
	})
	if !errors.Is(err, service.ErrDuplicateContentID) {
		t.Errorf("expected ErrDuplicateContentID, got %v", err)
	}
}

func TestCreateInvalidExtension(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewDatasetService(ctx)

	_, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Fontane",
		ContentID:    "fontane.json",
		CategoryName: "Enti",
		Content:      collectionBytes(t, 1, nil),
	})
	if !errors.Is(err, service.ErrInvalidExtension) {
		t.Errorf("expected ErrInvalidExtension, got %v", err)
	}
}

// Name length counts characters, not bytes: an accented name whose UTF-8
// encoding exceeds 255 bytes but stays within 255 characters is accepted.
func TestCreateNameLengthCountsRunes(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewDatasetService(ctx)

	// 200 characters, 400 bytes
	name := strings.Repeat("è", 200)

	resp, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         name,
		ContentID:    "fontane.geojson",
		CategoryName: "Enti",
		Content:      collectionBytes(t, 1, nil),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if resp.Name != name {
		t.Errorf("expected name preserved, got %q", resp.Name)
	}

	_, err = svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         strings.Repeat("è", 256),
		ContentID:    "altre-fontane.geojson",
		CategoryName: "Enti",
		Content:      collectionBytes(t, 1, nil),
	})
	if err == nil {
		t.Error("expected 256-character name rejected")
	}
}

// A rejected document must leave no trace: no row, no file, no audit entry.
func TestCreateValidationFailed(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewDatasetService(ctx)

	raw := []byte(`{"type": "FeatureCollection", "features": []}`)

	_, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Vuoto",
		ContentID:    "vuoto.geojson",
		CategoryName: "Enti",
		Content:      raw,
	})
	if err == nil || !service.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var count int64
	if err := ctxPkg.GetDBClient(ctx).GetDB().Model(&model.Dataset{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 0 {
		t.Errorf("expected no catalog row after rejection, got %d", count)
	}

	exists, _ := ctxPkg.GetContentStore(ctx).Exists(ctx, "vuoto/vuoto.geojson")
	if exists {
		t.Error("expected no content file after rejection")
	}
}

// A content write failure after the catalog commit surfaces to the caller;
// the committed row and its audit entry stay in place for repair by content
// replacement.
func TestCreateContentWriteFailure(t *testing.T) {
	ctx := newTestContextWithStore(t, &brokenStore{Store: content.NewMemoryStore()})
	svc := service.NewDatasetService(ctx)

	_, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Fontane",
		ContentID:    "fontane.geojson",
		CategoryName: "Enti",
		Content:      collectionBytes(t, 1, nil),
	})
	if err == nil {
		t.Fatal("expected error when the content write fails")
	}

	// the catalog row committed before the write and must survive
	var dataset model.Dataset
	if err := ctxPkg.GetDBClient(ctx).GetDB().Where("name = ?", "Fontane").First(&dataset).Error; err != nil {
		t.Fatalf("expected committed catalog row, got %v", err)
	}

	if dataset.Version != 1 {
		t.Errorf("expected version 1, got %d", dataset.Version)
	}

	mods, err := service.NewModificationService(ctx).ListByDataset(ctx, dataset.ID)
	if err != nil {
		t.Fatalf("list modifications: %v", err)
	}

	if len(mods.Modifications) != 1 || mods.Modifications[0].Action != model.ActionCreated {
		t.Errorf("expected the initial audit entry to survive, got %+v", mods.Modifications)
	}
}

func TestCreateWithCustomIcon(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewDatasetService(ctx)

	resp, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Fontane",
		ContentID:    "fontane.geojson",
		CategoryName: "Enti",
		Icon:         "fontane.png",
		IconMap:      []byte{0x89, 0x50, 0x4e, 0x47},
		Content:      collectionBytes(t, 1, nil),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if resp.Icon != "fontane.png" {
		t.Errorf("expected icon patch to fontane.png, got %q", resp.Icon)
	}

	exists, _ := ctxPkg.GetContentStore(ctx).Exists(ctx, "fontane/fontane.png")
	if !exists {
		t.Error("expected icon file next to the content file")
	}
}

func TestReplaceFeatures(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	feature := map[string]any{
		"type":     "Feature",
		"geometry": map[string]any{"type": "Point", "coordinates": []any{9.2, 45.5}},
		"properties": map[string]any{
			"name": "Nuova", "description": "x", "category": "Enti", "city": "Milano",
		},
	}

	// bump to version 3
	for i := 0; i < 2; i++ {
		if _, err := svc.ReplaceFeatures(ctx, created.ID, "alice", &types.ReplaceFeaturesRequest{
			Features: []any{feature},
			Comment:  "refresh",
		}); err != nil {
			t.Fatalf("replace %d: %v", i, err)
		}
	}

	// clearing features at version 3 yields version 4
	resp, err := svc.ReplaceFeatures(ctx, created.ID, "alice", &types.ReplaceFeaturesRequest{
		Features: []any{},
		Comment:  "cleared",
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	if resp.Version != 4 {
		t.Errorf("expected version 4, got %d", resp.Version)
	}

	doc, err := svc.GetContent(ctx, created.ID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}

	features, ok := doc["features"].([]any)
	if !ok || len(features) != 0 {
		t.Errorf("expected empty features array, got %v", doc["features"])
	}

	mods, err := service.NewModificationService(ctx).ListByDataset(ctx, created.ID)
	if err != nil {
		t.Fatalf("list modifications: %v", err)
	}

	latest := mods.Modifications[0]
	if latest.Action != model.ActionUpdated || latest.VersionBefore != 3 || latest.VersionAfter != 4 {
		t.Errorf("unexpected latest audit entry: %+v", latest)
	}

	if latest.Comment != "cleared" {
		t.Errorf("expected comment cleared, got %q", latest.Comment)
	}
}

// Top-level keys other than features survive replacement verbatim.
func TestReplaceFeaturesPreservesTopLevelKeys(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewDatasetService(ctx)

	created, err := svc.Create(ctx, "alice", &types.CreateDatasetRequest{
		Name:         "Fontane",
		ContentID:    "fontane.geojson",
		CategoryName: "Enti",
		Content: collectionBytes(t, 2, map[string]any{
			"name": "fontane-export",
			"crs":  map[string]any{"type": "name"},
		}),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ReplaceFeatures(ctx, created.ID, "alice", &types.ReplaceFeaturesRequest{
		Features: []any{},
		Comment:  "cleared",
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	doc, err := svc.GetContent(ctx, created.ID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}

	if doc["name"] != "fontane-export" {
		t.Errorf("expected top-level name preserved, got %v", doc["name"])
	}

	if _, ok := doc["crs"].(map[string]any); !ok {
		t.Errorf("expected top-level crs preserved, got %v", doc["crs"])
	}
}

func TestReplaceFeaturesRequiresComment(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	_, err := svc.ReplaceFeatures(ctx, created.ID, "alice", &types.ReplaceFeaturesRequest{
		Features: []any{},
		Comment:  "  ",
	})
	if !errors.Is(err, service.ErrMissingComment) {
		t.Errorf("expected ErrMissingComment, got %v", err)
	}

	_, err = svc.ReplaceFeatures(ctx, 9999, "alice", &types.ReplaceFeaturesRequest{
		Features: []any{},
		Comment:  "cleared",
	})
	if !errors.Is(err, service.ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}
}

func TestReplaceContent(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	resp, err := svc.ReplaceContent(ctx, created.ID, "alice", &types.ReplaceContentRequest{
		Content: collectionBytes(t, 5, nil),
		Comment: "new survey",
	})
	if err != nil {
		t.Fatalf("replace content: %v", err)
	}

	if resp.Version != 2 {
		t.Errorf("expected version 2, got %d", resp.Version)
	}

	mods, _ := service.NewModificationService(ctx).ListByDataset(ctx, created.ID)
	if mods.Modifications[0].Action != model.ActionFileReplaced {
		t.Errorf("expected file_replaced, got %q", mods.Modifications[0].Action)
	}
}

// Metadata edits leave the version untouched but still audit.
func TestUpdateMetadata(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	desc := "fontane pubbliche"
	loc := "Milano"

	resp, err := svc.UpdateMetadata(ctx, created.ID, "bob", &types.UpdateDatasetRequest{
		Description: &desc,
		Location:    &loc,
		Comment:     "filled in",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if resp.Version != 1 {
		t.Errorf("metadata update must not bump version, got %d", resp.Version)
	}

	if resp.Description != desc || resp.Location != loc {
		t.Errorf("unexpected projection: %+v", resp)
	}

	mods, _ := service.NewModificationService(ctx).ListByDataset(ctx, created.ID)
	if len(mods.Modifications) != 2 {
		t.Fatalf("expected two audit entries, got %d", len(mods.Modifications))
	}

	latest := mods.Modifications[0]
	if latest.VersionBefore != latest.VersionAfter {
		t.Errorf("metadata audit entry must keep the version pair equal: %+v", latest)
	}
}

func TestUpdateMetadataCategoryMustExist(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	missing := "Inesistente"

	_, err := svc.UpdateMetadata(ctx, created.ID, "bob", &types.UpdateDatasetRequest{
		CategoryName: &missing,
	})
	if !errors.Is(err, service.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestToggleArchiveRestore(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	resp, err := svc.ToggleActive(ctx, created.ID, "alice", &types.ToggleActiveRequest{Active: false})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if resp.IsActive {
		t.Error("expected dataset hidden")
	}

	resp, err = svc.Archive(ctx, created.ID, "alice", "stagionale")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	if !resp.IsArchived {
		t.Error("expected dataset archived")
	}

	resp, err = svc.Restore(ctx, created.ID, "alice", "riapertura")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if resp.IsArchived {
		t.Error("expected dataset restored")
	}

	mods, _ := service.NewModificationService(ctx).ListByDataset(ctx, created.ID)
	if mods.Modifications[0].Action != model.ActionRestored {
		t.Errorf("expected restored, got %q", mods.Modifications[0].Action)
	}

	if mods.Modifications[1].Action != model.ActionArchived {
		t.Errorf("expected archived, got %q", mods.Modifications[1].Action)
	}
}

// Delete removes the row first and appends the trailing audit entry after,
// so the log keeps the history of a dataset that no longer exists.
func TestDelete(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	if err := svc.Delete(ctx, created.ID, "alice", "dismessa"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, service.ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound after delete, got %v", err)
	}

	mods, err := service.NewModificationService(ctx).ListByDataset(ctx, created.ID)
	if err != nil {
		t.Fatalf("list modifications: %v", err)
	}

	if len(mods.Modifications) != 2 {
		t.Fatalf("expected create + delete audit entries, got %d", len(mods.Modifications))
	}

	latest := mods.Modifications[0]
	if latest.Action != model.ActionArchived || latest.DatasetID != created.ID {
		t.Errorf("unexpected trailing audit entry: %+v", latest)
	}

	exists, _ := ctxPkg.GetContentStore(ctx).Exists(ctx, "fontane/fontane.geojson")
	if exists {
		t.Error("expected content folder removed after delete")
	}

	if err := svc.Delete(ctx, created.ID, "alice", "ancora"); !errors.Is(err, service.ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound on second delete, got %v", err)
	}
}

func TestGetAndList(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewDatasetService(ctx)

	// first read fills the cache, second is served from it
	for i := 0; i < 2; i++ {
		resp, err := svc.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}

		if resp.Name != "Fontane" || resp.Version != 1 {
			t.Errorf("unexpected projection: %+v", resp)
		}
	}

	list, err := svc.List(ctx, &types.ListDatasetsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if list.Total != 1 || len(list.Datasets) != 1 {
		t.Errorf("expected a single dataset, got total=%d len=%d", list.Total, len(list.Datasets))
	}

	// archived datasets disappear from the default listing
	if _, err := svc.Archive(ctx, created.ID, "alice", ""); err != nil {
		t.Fatalf("archive: %v", err)
	}

	list, err = svc.List(ctx, &types.ListDatasetsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if list.Total != 0 {
		t.Errorf("expected archived dataset hidden, got total=%d", list.Total)
	}

	list, err = svc.List(ctx, &types.ListDatasetsRequest{IncludeHidden: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if list.Total != 1 {
		t.Errorf("expected archived dataset with IncludeHidden, got total=%d", list.Total)
	}
}
