package service_test

import (
	"errors"
	"testing"

	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/types"
)

func TestEditModificationComment(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	svc := service.NewModificationService(ctx)

	mods, err := svc.ListByDataset(ctx, created.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	entry := mods.Modifications[0]

	if err := svc.EditComment(ctx, entry.ID, &types.EditModificationCommentRequest{
		Comment: "import iniziale",
	}); err != nil {
		t.Fatalf("edit comment: %v", err)
	}

	mods, err = svc.ListByDataset(ctx, created.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	after := mods.Modifications[0]
	if after.Comment != "import iniziale" {
		t.Errorf("expected corrected comment, got %q", after.Comment)
	}

	// the version pair and action must be untouched
	if after.Action != entry.Action || after.VersionBefore != entry.VersionBefore || after.VersionAfter != entry.VersionAfter {
		t.Errorf("comment edit must not touch other fields: before=%+v after=%+v", entry, after)
	}
}

func TestEditModificationCommentErrors(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewModificationService(ctx)

	err := svc.EditComment(ctx, 1, &types.EditModificationCommentRequest{Comment: " "})
	if !errors.Is(err, service.ErrMissingComment) {
		t.Errorf("expected ErrMissingComment, got %v", err)
	}

	err = svc.EditComment(ctx, 404, &types.EditModificationCommentRequest{Comment: "x"})
	if !errors.Is(err, service.ErrModificationNotFound) {
		t.Errorf("expected ErrModificationNotFound, got %v", err)
	}
}

func TestListModificationsNewestFirst(t *testing.T) {
	ctx := newTestContext(t)
	created := createFontane(t, ctx)
	ds := service.NewDatasetService(ctx)

	if _, err := ds.ReplaceFeatures(ctx, created.ID, "alice", &types.ReplaceFeaturesRequest{
		Features: []any{},
		Comment:  "cleared",
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	mods, err := service.NewModificationService(ctx).ListByDataset(ctx, created.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(mods.Modifications) != 2 {
		t.Fatalf("expected two entries, got %d", len(mods.Modifications))
	}

	if mods.Modifications[0].VersionAfter != 2 || mods.Modifications[1].VersionAfter != 1 {
		t.Errorf("expected newest first ordering, got %+v", mods.Modifications)
	}
}
