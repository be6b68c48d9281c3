package app

import (
	"context"

	"studykart/internal/util"
	"studykart/pkg/record"
)

// contentMutableFields is the closed set of content fields an admin may
// change through UpdateContent. contentId, views and timestamps stay out.
var contentMutableFields = record.NewFieldSet(
	"title", "description", "classId", "board", "subject",
	"fileUrl", "thumbnailUrl", "fileKey",
	"chapters", "pages", "lessons", "duration",
	"previewPages", "status",
)

// contentSearchOptions scans title and description for the free-text
// search filter.
func contentSearchOptions() record.Options {
	opts := record.DefaultOptions()
	opts.SearchFields = []string{"title", "description"}
	return opts
}

// CreateContent stores a new content item with a fresh generated id and
// zero counters. The type (pdf or video) is fixed at creation and never
// updatable afterwards.
func (a *App) CreateContent(ctx context.Context, input record.Record) (record.Record, error) {
	if err := requireFields(input, "title", "type", "classId", "subject"); err != nil {
		return nil, err
	}
	id := util.NewRecordID("content")
	item := record.Record{
		"contentId":    id,
		"title":        input.String("title"),
		"description":  input.String("description"),
		"type":         input.String("type"),
		"classId":      input.String("classId"),
		"board":        input.String("board"),
		"subject":      input.String("subject"),
		"fileUrl":      input.String("fileUrl"),
		"thumbnailUrl": input.String("thumbnailUrl"),
		"fileKey":      input.String("fileKey"),
		"chapters":     input.Int("chapters"),
		"pages":        input.Int("pages"),
		"lessons":      input.Int("lessons"),
		"duration":     input.String("duration"),
		"previewPages": defaultNumber(input, "previewPages", 5),
		"status":       defaultString(input.String("status"), StatusDraft),
		"views":        0,
		"purchases":    0,
	}
	return a.records.Put(ctx, record.CollectionContent, id, item, true)
}

// GetContent returns one item and bumps its view counter atomically.
// The returned record reflects the incremented count.
func (a *App) GetContent(ctx context.Context, id string) (record.Record, error) {
	return a.records.Increment(ctx, record.CollectionContent, id, "views", 1)
}

// ListPublishedContent is the student-facing catalog: published items
// only, with optional classId/board/subject filters and free-text
// search over title and description, newest first.
func (a *App) ListPublishedContent(ctx context.Context, filters map[string]string) ([]record.Record, error) {
	items, err := a.records.ScanAll(ctx, record.CollectionContent)
	if err != nil {
		return nil, err
	}
	merged := map[string]string{"status": StatusPublished}
	for name, v := range filters {
		if name == "status" {
			continue
		}
		merged[name] = v
	}
	return record.Apply(items, merged, contentSearchOptions()), nil
}

// ListContentAdmin returns all items regardless of status, with the
// same filters and search the public listing supports.
func (a *App) ListContentAdmin(ctx context.Context, filters map[string]string) ([]record.Record, error) {
	items, err := a.records.ScanAll(ctx, record.CollectionContent)
	if err != nil {
		return nil, err
	}
	return record.Apply(items, filters, contentSearchOptions()), nil
}

// UpdateContent applies an allow-listed partial update.
func (a *App) UpdateContent(ctx context.Context, id string, changes record.Record) (record.Record, error) {
	upd, err := buildUpdate(contentMutableFields, changes)
	if err != nil {
		return nil, err
	}
	return a.records.Update(ctx, record.CollectionContent, id, upd)
}

// ToggleContentStatus flips draft to published and back.
func (a *App) ToggleContentStatus(ctx context.Context, id string) (record.Record, error) {
	item, err := a.records.Get(ctx, record.CollectionContent, id)
	if err != nil {
		return nil, err
	}
	next := StatusPublished
	if item.String("status") == StatusPublished {
		next = StatusDraft
	}
	upd := record.NewUpdate()
	upd.Set("status", next)
	return a.records.Update(ctx, record.CollectionContent, id, upd)
}

// DeleteContent removes the record and best-effort deletes the backing
// objects. Object-store failures are logged and do not block the
// record delete.
func (a *App) DeleteContent(ctx context.Context, id string) error {
	item, err := a.records.Get(ctx, record.CollectionContent, id)
	if err != nil {
		return err
	}
	log := util.LoggerFromContext(ctx)
	if key := item.String("fileKey"); key != "" {
		if err := a.objects.Delete(ctx, key); err != nil {
			log.Warn("delete content file failed", "contentId", id, "key", key, "error", err)
		}
	}
	if thumbURL := item.String("thumbnailUrl"); thumbURL != "" {
		if key := a.objects.KeyFromURL(thumbURL); key != "" && key != item.String("fileKey") {
			if err := a.objects.Delete(ctx, key); err != nil {
				log.Warn("delete thumbnail failed", "contentId", id, "key", key, "error", err)
			}
		}
	}
	return a.records.Delete(ctx, record.CollectionContent, id)
}

// ContentStats aggregates catalog counts for the admin dashboard.
func (a *App) ContentStats(ctx context.Context) (record.Record, error) {
	items, err := a.records.ScanAll(ctx, record.CollectionContent)
	if err != nil {
		return nil, err
	}
	pdfs, videos, published, drafts := 0, 0, 0, 0
	var totalViews, totalPurchases int64
	for _, item := range items {
		switch item.String("type") {
		case "pdf":
			pdfs++
		case "video":
			videos++
		}
		if item.String("status") == StatusPublished {
			published++
		} else {
			drafts++
		}
		totalViews += item.Int("views")
		totalPurchases += item.Int("purchases")
	}
	return record.Record{
		"totalContent":   len(items),
		"totalPDFs":      pdfs,
		"totalVideos":    videos,
		"published":      published,
		"drafts":         drafts,
		"totalViews":     totalViews,
		"totalPurchases": totalPurchases,
	}, nil
}

// defaultNumber returns the input field when present, else the fallback.
func defaultNumber(input record.Record, field string, fallback int) any {
	if v, ok := input[field]; ok && v != nil {
		return v
	}
	return fallback
}
