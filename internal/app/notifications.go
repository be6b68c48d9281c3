package app

import (
	"context"

	"studykart/internal/util"
	"studykart/pkg/record"
)

// SendNotification stores an announcement and counts how many users it
// targets. Targeting: classId must be in targetClasses (or the list
// contains "all"), and board must equal targetBoard (or "all").
func (a *App) SendNotification(ctx context.Context, input record.Record) (record.Record, error) {
	if err := requireFields(input, "title", "message", "targetBoard"); err != nil {
		return nil, err
	}
	targetClasses := input.Strings("targetClasses")
	if len(targetClasses) == 0 {
		return nil, &ValidationError{Missing: []string{"targetClasses"}}
	}
	targetBoard := input.String("targetBoard")

	users, err := a.records.ScanAll(ctx, record.CollectionUsers)
	if err != nil {
		return nil, err
	}
	recipients := 0
	for _, user := range users {
		if notificationTargets(targetClasses, targetBoard, user.String("classId"), user.String("board")) {
			recipients++
		}
	}

	id := util.NewRecordID("notif")
	notification := record.Record{
		"notificationId": id,
		"title":          input.String("title"),
		"message":        input.String("message"),
		"targetClasses":  targetClasses,
		"targetBoard":    targetBoard,
		"recipients":     recipients,
		"status":         "sent",
	}
	return a.records.Put(ctx, record.CollectionNotifications, id, notification, true)
}

// ListNotifications returns notifications newest first. When classID or
// board are given, only notifications targeting them (directly or via
// "all") are returned, so clients fetch their own feed.
func (a *App) ListNotifications(ctx context.Context, classID, board string) ([]record.Record, error) {
	items, err := a.records.ScanAll(ctx, record.CollectionNotifications)
	if err != nil {
		return nil, err
	}
	if classID != "" || board != "" {
		filtered := items[:0]
		for _, item := range items {
			if notificationReaches(item, classID, board) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	return record.Apply(items, nil, record.DefaultOptions()), nil
}

// notificationTargets reports whether a user with the given class and
// board falls inside a notification's target set.
func notificationTargets(targetClasses []string, targetBoard, classID, board string) bool {
	classMatch := false
	for _, class := range targetClasses {
		if class == "all" || class == classID {
			classMatch = true
			break
		}
	}
	if !classMatch {
		return false
	}
	return targetBoard == "all" || targetBoard == board
}

// notificationReaches is the listing-side counterpart: empty query
// values match everything.
func notificationReaches(item record.Record, classID, board string) bool {
	if classID != "" {
		if !notificationTargets(item.Strings("targetClasses"), "all", classID, "") {
			return false
		}
	}
	if board != "" {
		if tb := item.String("targetBoard"); tb != "all" && tb != board {
			return false
		}
	}
	return true
}
