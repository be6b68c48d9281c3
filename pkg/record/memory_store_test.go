package record

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPutStampsTimestamps(t *testing.T) {
	s := NewMemoryStore()
	stored, err := s.Put(context.Background(), CollectionContent, "k1", Record{"title": "A"}, true)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	created := stored.String(FieldCreatedAt)
	if created == "" || stored.String(FieldUpdatedAt) == "" {
		t.Fatalf("timestamps missing: %+v", stored)
	}
	if _, err := time.Parse(TimeFormat, created); err != nil {
		t.Fatalf("createdAt not in wire format: %q", created)
	}
}

func TestPutConditionalCreate(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Put(context.Background(), CollectionUsers, "p1", Record{"name": "A"}, true); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := s.Put(context.Background(), CollectionUsers, "p1", Record{"name": "B"}, true); err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	got, err := s.Get(context.Background(), CollectionUsers, "p1")
	if err != nil || got.String("name") != "A" {
		t.Fatalf("loser overwrote the record: %v %+v", err, got)
	}
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	first, err := s.Put(context.Background(), CollectionPricing, "class10", Record{"plans": map[string]any{"monthly": 1}}, false)
	if err != nil {
		t.Fatalf("first put: %v", err)
	}
	second, err := s.Put(context.Background(), CollectionPricing, "class10", Record{"plans": map[string]any{"monthly": 2}}, false)
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if second.String(FieldCreatedAt) != first.String(FieldCreatedAt) {
		t.Fatalf("upsert must keep createdAt: %q vs %q",
			first.String(FieldCreatedAt), second.String(FieldCreatedAt))
	}
}

func TestConcurrentConditionalCreateOneWinner(t *testing.T) {
	s := NewMemoryStore()
	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := s.Put(context.Background(), CollectionUsers, "race", Record{"name": name}, true)
			if err == nil {
				wins <- name
			} else if err != ErrAlreadyExists {
				t.Errorf("unexpected error: %v", err)
			}
		}(string(rune('a' + i)))
	}
	wg.Wait()
	close(wins)
	var winners []string
	for name := range wins {
		winners = append(winners, name)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %v", winners)
	}
	got, err := s.Get(context.Background(), CollectionUsers, "race")
	if err != nil || got.String("name") != winners[0] {
		t.Fatalf("stored record does not match winner: %v %+v", err, got)
	}
}

func TestUpdateTouchesOnlyBuiltFields(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Put(context.Background(), CollectionContent, "k1",
		Record{"title": "A", "subject": "maths", "views": 7}, true); err != nil {
		t.Fatalf("put: %v", err)
	}
	upd := NewUpdate()
	upd.Set("title", "B")
	updated, err := s.Update(context.Background(), CollectionContent, "k1", upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.String("title") != "B" {
		t.Fatalf("built field not applied: %+v", updated)
	}
	if updated.String("subject") != "maths" || updated.Int("views") != 7 {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
}

func TestUpdateAbsentKey(t *testing.T) {
	s := NewMemoryStore()
	upd := NewUpdate()
	upd.Set("title", "B")
	if _, err := s.Update(context.Background(), CollectionContent, "missing", upd); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Put(context.Background(), CollectionContent, "k1", Record{"views": 0}, true); err != nil {
		t.Fatalf("put: %v", err)
	}
	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Increment(context.Background(), CollectionContent, "k1", "views", 1); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()
	got, err := s.Get(context.Background(), CollectionContent, "k1")
	if err != nil || got.Int("views") != workers {
		t.Fatalf("views = %d, want %d (err %v)", got.Int("views"), workers, err)
	}
}

func TestIncrementAbsentFieldStartsAtZero(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Put(context.Background(), CollectionContent, "k1", Record{"title": "A"}, true); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Increment(context.Background(), CollectionContent, "k1", "purchases", 3)
	if err != nil || got.Int("purchases") != 3 {
		t.Fatalf("purchases = %d, want 3 (err %v)", got.Int("purchases"), err)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Delete(context.Background(), CollectionContent, "missing"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Put(context.Background(), CollectionContent, "k1",
		Record{"tags": []any{"a"}}, true); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(context.Background(), CollectionContent, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got["title"] = "mutated"
	got["tags"].([]any)[0] = "mutated"

	again, err := s.Get(context.Background(), CollectionContent, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := again["title"]; ok {
		t.Fatalf("caller mutation reached the store: %+v", again)
	}
	if again["tags"].([]any)[0] != "a" {
		t.Fatalf("nested mutation reached the store: %+v", again)
	}
}

func TestItemMapsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	items := []map[string]any{{"contentId": "content_1", "price": 499}}
	if _, err := s.Put(context.Background(), CollectionOrders, "o1",
		Record{"items": items}, true); err != nil {
		t.Fatalf("put: %v", err)
	}
	items[0]["contentId"] = "mutated"

	got, err := s.Get(context.Background(), CollectionOrders, "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	stored := got["items"].([]map[string]any)
	if stored[0]["contentId"] != "content_1" {
		t.Fatalf("caller mutation reached the stored order: %+v", stored)
	}

	stored[0]["contentId"] = "mutated"
	again, err := s.Get(context.Background(), CollectionOrders, "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again["items"].([]map[string]any)[0]["contentId"] != "content_1" {
		t.Fatalf("read-side mutation reached the store: %+v", again)
	}
}

func TestQueryByIndex(t *testing.T) {
	s := NewMemoryStore()
	seed := []struct {
		id, phone, created string
	}{
		{"o1", "111", "2026-01-01T00:00:00.000Z"},
		{"o2", "222", "2026-01-02T00:00:00.000Z"},
		{"o3", "111", "2026-01-03T00:00:00.000Z"},
	}
	for _, o := range seed {
		rec := Record{"id": o.id, "phone": o.phone, FieldCreatedAt: o.created}
		if _, err := s.Put(context.Background(), CollectionOrders, o.id, rec, true); err != nil {
			t.Fatalf("put %s: %v", o.id, err)
		}
	}
	got, err := s.QueryByIndex(context.Background(), CollectionOrders, "111")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].String("id") != "o3" || got[1].String("id") != "o1" {
		t.Fatalf("index query wrong: %+v", got)
	}
}
