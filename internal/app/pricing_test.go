package app

import (
	"context"
	"testing"

	"studykart/pkg/record"
)

func TestSeedPricing(t *testing.T) {
	a, _, _ := newTestApp(t)

	seeded, err := a.SeedPricing(context.Background())
	if err != nil {
		t.Fatalf("seed pricing: %v", err)
	}
	if len(seeded) != 4 {
		t.Fatalf("expected 4 seeded classes, got %d", len(seeded))
	}

	pricing, err := a.GetPricing(context.Background(), "neet")
	if err != nil {
		t.Fatalf("get pricing: %v", err)
	}
	if pricing.Float("hardCopyPrice") != 2499 {
		t.Fatalf("neet hardCopyPrice = %v, want 2499", pricing["hardCopyPrice"])
	}
	if pricing.String("className") != "NEET" {
		t.Fatalf("className = %q, want NEET", pricing.String("className"))
	}
}

func TestSeedPricingOverwrites(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.UpsertPricing(context.Background(), "class10", record.Record{"pdfPrice": 5}); err != nil {
		t.Fatalf("upsert pricing: %v", err)
	}
	if _, err := a.SeedPricing(context.Background()); err != nil {
		t.Fatalf("seed pricing: %v", err)
	}
	pricing, err := a.GetPricing(context.Background(), "class10")
	if err != nil {
		t.Fatalf("get pricing: %v", err)
	}
	if pricing.Float("pdfPrice") != 499 {
		t.Fatalf("seed should restore defaults, got %v", pricing["pdfPrice"])
	}
}

func TestUpsertPricingDefaults(t *testing.T) {
	a, _, _ := newTestApp(t)
	stored, err := a.UpsertPricing(context.Background(), "class11", record.Record{
		"pdfPrice": 649, "videoPrice": "not-a-number",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if stored.String("className") != "class11" {
		t.Fatalf("className should default to classId: %+v", stored)
	}
	if stored.Float("pdfPrice") != 649 || stored.Float("videoPrice") != 0 {
		t.Fatalf("price parsing wrong: %+v", stored)
	}
	if stored.Float("hardCopyPrice") != 0 {
		t.Fatalf("absent price should be zero: %+v", stored)
	}

	// Upsert replaces the whole record.
	replaced, err := a.UpsertPricing(context.Background(), "class11", record.Record{"bundlePrice": 1199})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if replaced.Float("pdfPrice") != 0 || replaced.Float("bundlePrice") != 1199 {
		t.Fatalf("upsert did not replace: %+v", replaced)
	}
}

func TestUpsertPricingRequiresClass(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.UpsertPricing(context.Background(), "", record.Record{}); !isValidation(err) {
		t.Fatalf("missing classId: expected validation error, got %v", err)
	}
}

func TestListPricing(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.SeedPricing(context.Background()); err != nil {
		t.Fatalf("seed pricing: %v", err)
	}
	items, err := a.ListPricing(context.Background())
	if err != nil {
		t.Fatalf("list pricing: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 price records, got %d", len(items))
	}
}

func TestGetPricingUnknownClass(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.GetPricing(context.Background(), "class13"); err != record.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
