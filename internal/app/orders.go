package app

import (
	"context"
	"strings"

	"studykart/internal/util"
	"studykart/pkg/record"
)

// orderMutableFields is the closed set of order fields an admin may
// change. Amount, items and owner phone are immutable after creation.
var orderMutableFields = record.NewFieldSet(
	"orderStatus", "paymentStatus", "trackingId",
)

// paidStatuses are the paymentStatus values that count an order as paid
// and trigger the purchase counters.
var paidStatuses = map[string]bool{
	"completed": true,
	"paid":      true,
}

// CreateOrder places a new order for the authenticated phone. Payment
// and order status always start as pending regardless of what the
// client sends; only an admin transition can change them.
func (a *App) CreateOrder(ctx context.Context, phone string, input record.Record) (record.Record, error) {
	if err := requireFields(input, "orderType", "amount"); err != nil {
		return nil, err
	}
	items := normalizeOrderItems(input["items"])
	if items == nil {
		items = []map[string]any{}
	}
	id := util.NewRecordID("order")
	order := record.Record{
		"orderId":         id,
		"phone":           phone,
		"orderType":       input.String("orderType"),
		"items":           items,
		"classId":         input.String("classId"),
		"packageType":     input.String("packageType"),
		"amount":          input.Float("amount"),
		"paymentMethod":   defaultString(input.String("paymentMethod"), "online"),
		"paymentStatus":   "pending",
		"orderStatus":     "pending",
		"deliveryAddress": input["deliveryAddress"],
		"trackingId":      nil,
	}
	return a.records.Put(ctx, record.CollectionOrders, id, order, true)
}

// GetOrder returns one order. Non-admin callers only see their own.
func (a *App) GetOrder(ctx context.Context, id, phone string, admin bool) (record.Record, error) {
	order, err := a.records.Get(ctx, record.CollectionOrders, id)
	if err != nil {
		return nil, err
	}
	if !admin && order.String("phone") != phone {
		return nil, record.ErrNotFound
	}
	return order, nil
}

// ListOrdersByPhone returns the caller's orders newest first via the
// phone secondary index.
func (a *App) ListOrdersByPhone(ctx context.Context, phone string) ([]record.Record, error) {
	return a.records.QueryByIndex(ctx, record.CollectionOrders, phone)
}

// ListOrdersAdmin returns all orders with optional orderType and
// orderStatus filters, newest first.
func (a *App) ListOrdersAdmin(ctx context.Context, filters map[string]string) ([]record.Record, error) {
	orders, err := a.records.ScanAll(ctx, record.CollectionOrders)
	if err != nil {
		return nil, err
	}
	return record.Apply(orders, filters, record.DefaultOptions()), nil
}

// UpdateOrder applies an allow-listed status update. When the payment
// status transitions into a paid state, each ordered content item's
// purchase counter is bumped once; counter failures are logged and do
// not fail the order update.
func (a *App) UpdateOrder(ctx context.Context, id string, changes record.Record) (record.Record, error) {
	before, err := a.records.Get(ctx, record.CollectionOrders, id)
	if err != nil {
		return nil, err
	}
	upd, err := buildUpdate(orderMutableFields, changes)
	if err != nil {
		return nil, err
	}
	updated, err := a.records.Update(ctx, record.CollectionOrders, id, upd)
	if err != nil {
		return nil, err
	}
	wasPaid := paidStatuses[strings.ToLower(before.String("paymentStatus"))]
	nowPaid := paidStatuses[strings.ToLower(updated.String("paymentStatus"))]
	if !wasPaid && nowPaid {
		a.recordPurchases(ctx, updated)
	}
	return updated, nil
}

// recordPurchases bumps the purchases counter on every content item in
// a newly paid order.
func (a *App) recordPurchases(ctx context.Context, order record.Record) {
	log := util.LoggerFromContext(ctx)
	for _, item := range normalizeOrderItems(order["items"]) {
		contentID, _ := item["contentId"].(string)
		if contentID == "" {
			continue
		}
		if _, err := a.records.Increment(ctx, record.CollectionContent, contentID, "purchases", 1); err != nil {
			log.Warn("purchase counter update failed",
				"orderId", order.String("orderId"), "contentId", contentID, "error", err)
		}
	}
}

// OrderStats aggregates order counts and revenue for the admin
// dashboard.
func (a *App) OrderStats(ctx context.Context) (record.Record, error) {
	orders, err := a.records.ScanAll(ctx, record.CollectionOrders)
	if err != nil {
		return nil, err
	}
	digital, hardcopy, pending, completed := 0, 0, 0, 0
	var revenue float64
	for _, order := range orders {
		switch order.String("orderType") {
		case "digital":
			digital++
		case "hardcopy":
			hardcopy++
		}
		switch strings.ToLower(order.String("orderStatus")) {
		case "pending":
			pending++
		case "completed", "delivered":
			completed++
		}
		revenue += order.Float("amount")
	}
	return record.Record{
		"totalOrders":     len(orders),
		"digitalOrders":   digital,
		"hardcopyOrders":  hardcopy,
		"pendingOrders":   pending,
		"completedOrders": completed,
		"totalRevenue":    revenue,
	}, nil
}

// normalizeOrderItems accepts a decoded JSON items array and keeps only
// object entries.
func normalizeOrderItems(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		if typed, isTyped := v.([]map[string]any); isTyped {
			return typed
		}
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if m, isMap := entry.(map[string]any); isMap {
			out = append(out, m)
		}
	}
	return out
}
