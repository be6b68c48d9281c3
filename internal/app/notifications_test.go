package app

import (
	"context"
	"strings"
	"testing"

	"studykart/pkg/record"
)

func sendNotification(t *testing.T, a *App, title string, classes []any, board string) record.Record {
	t.Helper()
	notif, err := a.SendNotification(context.Background(), record.Record{
		"title":         title,
		"message":       "m",
		"targetClasses": classes,
		"targetBoard":   board,
	})
	if err != nil {
		t.Fatalf("send %s: %v", title, err)
	}
	return notif
}

func TestSendNotificationCountsRecipients(t *testing.T) {
	a, _, _ := newTestApp(t)
	registerUser(t, a, "9000000021", "A", record.Record{"classId": "class10", "board": "state"})
	registerUser(t, a, "9000000022", "B", record.Record{"classId": "class10", "board": "cbse"})
	registerUser(t, a, "9000000023", "C", record.Record{"classId": "class12", "board": "state"})

	notif := sendNotification(t, a, "Exam schedule", []any{"class10"}, "state")
	if notif.Int("recipients") != 1 {
		t.Fatalf("recipients = %d, want 1", notif.Int("recipients"))
	}
	if notif.String("status") != "sent" {
		t.Fatalf("status = %q, want sent", notif.String("status"))
	}
	if !strings.HasPrefix(notif.String("notificationId"), "notif_") {
		t.Fatalf("unexpected notificationId %q", notif.String("notificationId"))
	}
}

func TestSendNotificationAllTargets(t *testing.T) {
	a, _, _ := newTestApp(t)
	registerUser(t, a, "9000000031", "A", record.Record{"classId": "class10", "board": "state"})
	registerUser(t, a, "9000000032", "B", record.Record{"classId": "neet", "board": "cbse"})

	notif := sendNotification(t, a, "Holiday", []any{"all"}, "all")
	if notif.Int("recipients") != 2 {
		t.Fatalf("\"all\" targeting should reach everyone, got %d", notif.Int("recipients"))
	}
}

func TestSendNotificationValidation(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, err := a.SendNotification(context.Background(), record.Record{
		"title": "x", "message": "y", "targetBoard": "all",
	})
	if !isValidation(err) {
		t.Fatalf("missing targetClasses: expected validation error, got %v", err)
	}
	_, err = a.SendNotification(context.Background(), record.Record{
		"title": "x", "message": "y", "targetClasses": []any{"all"},
	})
	if !isValidation(err) {
		t.Fatalf("missing targetBoard: expected validation error, got %v", err)
	}
}

func TestListNotificationsFiltered(t *testing.T) {
	a, _, _ := newTestApp(t)
	sendNotification(t, a, "for class10 state", []any{"class10"}, "state")
	sendNotification(t, a, "for class12", []any{"class12"}, "all")
	sendNotification(t, a, "for everyone", []any{"all"}, "all")

	items, err := a.ListNotifications(context.Background(), "", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(items))
	}

	items, err = a.ListNotifications(context.Background(), "class10", "cbse")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(items) != 1 || items[0].String("title") != "for everyone" {
		t.Fatalf("class10/cbse feed wrong: %+v", items)
	}

	items, err = a.ListNotifications(context.Background(), "class12", "")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("class12 feed should include its own and \"all\": %+v", items)
	}
}
