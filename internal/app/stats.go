package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"studykart/pkg/record"
)

// DashboardStats assembles the admin dashboard from the per-resource
// aggregations, fetched concurrently.
func (a *App) DashboardStats(ctx context.Context) (record.Record, error) {
	var users, content, orders record.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = a.UserStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		content, err = a.ContentStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = a.OrderStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return record.Record{
		"users":   users,
		"content": content,
		"orders":  orders,
	}, nil
}
