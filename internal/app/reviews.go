package app

import (
	"context"

	"studykart/internal/util"
	"studykart/pkg/record"
)

// reviewMutableFields is the closed set of review fields changeable
// after creation, used by the admin moderation update.
var reviewMutableFields = record.NewFieldSet(
	"userName", "studentClass", "rating", "comment", "status",
)

// CreateReview stores a testimonial. Rating defaults to 5 and status to
// active; out-of-range ratings are rejected.
func (a *App) CreateReview(ctx context.Context, input record.Record) (record.Record, error) {
	if err := requireFields(input, "userName", "comment"); err != nil {
		return nil, err
	}
	rating := int64(5)
	if v, ok := input["rating"]; ok && v != nil {
		rating = input.Int("rating")
		if rating < 1 || rating > 5 {
			return nil, invalidInput("rating must be between 1 and 5")
		}
	}
	id := util.NewRecordID("review")
	review := record.Record{
		"reviewId":     id,
		"userName":     input.String("userName"),
		"studentClass": input.String("studentClass"),
		"rating":       rating,
		"comment":      input.String("comment"),
		"status":       "active",
	}
	return a.records.Put(ctx, record.CollectionReviews, id, review, true)
}

// ListReviews returns reviews newest first with an optional status
// filter. The public site passes status=active.
func (a *App) ListReviews(ctx context.Context, filters map[string]string) ([]record.Record, error) {
	reviews, err := a.records.ScanAll(ctx, record.CollectionReviews)
	if err != nil {
		return nil, err
	}
	return record.Apply(reviews, filters, record.DefaultOptions()), nil
}

// UpdateReview applies an allow-listed moderation update.
func (a *App) UpdateReview(ctx context.Context, id string, changes record.Record) (record.Record, error) {
	if v, ok := changes["rating"]; ok && v != nil {
		if r := changes.Int("rating"); r < 1 || r > 5 {
			return nil, invalidInput("rating must be between 1 and 5")
		}
	}
	upd, err := buildUpdate(reviewMutableFields, changes)
	if err != nil {
		return nil, err
	}
	return a.records.Update(ctx, record.CollectionReviews, id, upd)
}

// DeleteReview removes a review. Deleting an absent id succeeds.
func (a *App) DeleteReview(ctx context.Context, id string) error {
	return a.records.Delete(ctx, record.CollectionReviews, id)
}
