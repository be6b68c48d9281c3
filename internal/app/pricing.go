package app

import (
	"context"

	"studykart/pkg/record"
)

// seedPricing is the default price table written by SeedPricing.
// Amounts are rupees.
var seedPricing = []record.Record{
	{
		"classId": "class10", "className": "Class 10",
		"description": "Complete study materials for Class 10",
		"pdfPrice":    499.0, "videoPrice": 799.0, "bundlePrice": 999.0, "hardCopyPrice": 1499.0,
	},
	{
		"classId": "class11", "className": "Class 11",
		"description": "Complete study materials for Class 11",
		"pdfPrice":    599.0, "videoPrice": 899.0, "bundlePrice": 1199.0, "hardCopyPrice": 1699.0,
	},
	{
		"classId": "class12", "className": "Class 12",
		"description": "Complete study materials for Class 12",
		"pdfPrice":    699.0, "videoPrice": 999.0, "bundlePrice": 1399.0, "hardCopyPrice": 1899.0,
	},
	{
		"classId": "neet", "className": "NEET",
		"description": "Complete NEET preparation materials",
		"pdfPrice":    999.0, "videoPrice": 1499.0, "bundlePrice": 1999.0, "hardCopyPrice": 2499.0,
	},
}

// UpsertPricing writes the full price record for one class, replacing
// any previous one. The className defaults to the classId and absent or
// unparseable prices fall back to zero.
func (a *App) UpsertPricing(ctx context.Context, classID string, input record.Record) (record.Record, error) {
	if classID == "" {
		return nil, &ValidationError{Missing: []string{"classId"}}
	}
	rec := record.Record{
		"classId":       classID,
		"className":     defaultString(input.String("className"), classID),
		"description":   input.String("description"),
		"pdfPrice":      input.Float("pdfPrice"),
		"videoPrice":    input.Float("videoPrice"),
		"bundlePrice":   input.Float("bundlePrice"),
		"hardCopyPrice": input.Float("hardCopyPrice"),
	}
	return a.records.Put(ctx, record.CollectionPricing, classID, rec, false)
}

// GetPricing returns the price record for one class.
func (a *App) GetPricing(ctx context.Context, classID string) (record.Record, error) {
	return a.records.Get(ctx, record.CollectionPricing, classID)
}

// ListPricing returns every class's price record, newest first.
func (a *App) ListPricing(ctx context.Context) ([]record.Record, error) {
	items, err := a.records.ScanAll(ctx, record.CollectionPricing)
	if err != nil {
		return nil, err
	}
	return record.Apply(items, nil, record.DefaultOptions()), nil
}

// SeedPricing writes the default price table, overwriting whatever is
// stored, and returns the seeded records.
func (a *App) SeedPricing(ctx context.Context) ([]record.Record, error) {
	out := make([]record.Record, 0, len(seedPricing))
	for _, tier := range seedPricing {
		stored, err := a.records.Put(ctx, record.CollectionPricing, tier.String("classId"), tier, false)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}
