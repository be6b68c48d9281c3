package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studykart/pkg/auth"
	"studykart/pkg/record"
)

// userMutableFields is the closed set of profile fields a user may
// change. phone (the key), password, role, purchases and timestamps are
// deliberately absent.
var userMutableFields = record.NewFieldSet(
	"name", "email", "classId", "board", "school", "pincode",
)

// Register creates a user keyed by phone. Exactly one of two concurrent
// registrations with the same phone succeeds; the other gets
// record.ErrAlreadyExists. The returned record has the password
// stripped.
func (a *App) Register(ctx context.Context, input record.Record) (record.Record, error) {
	if err := requireFields(input, "name", "phone", "password"); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(input.String("password"))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	phone := strings.TrimSpace(input.String("phone"))
	user := record.Record{
		"phone":     phone,
		"name":      input.String("name"),
		"email":     input.String("email"),
		"password":  hash,
		"classId":   defaultString(input.String("classId"), "class10"),
		"board":     defaultString(input.String("board"), "state"),
		"school":    input.String("school"),
		"pincode":   input.String("pincode"),
		"role":      RoleUser,
		"purchases": []string{},
	}
	stored, err := a.records.Put(ctx, record.CollectionUsers, phone, user, true)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(stored), nil
}

// Login verifies phone+password and returns the sanitized user.
func (a *App) Login(ctx context.Context, phone, password string) (record.Record, error) {
	if strings.TrimSpace(phone) == "" || password == "" {
		return nil, &ValidationError{Missing: missingOf(phone == "", "phone", password == "", "password")}
	}
	user, err := a.records.Get(ctx, record.CollectionUsers, phone)
	if err != nil {
		if err == record.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.String("password")) {
		return nil, ErrInvalidCredentials
	}
	return sanitizeUser(user), nil
}

// GetUserByPhone returns one user without the password hash.
func (a *App) GetUserByPhone(ctx context.Context, phone string) (record.Record, error) {
	user, err := a.records.Get(ctx, record.CollectionUsers, phone)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// UpdateUserProfile applies an allow-listed partial update to the
// caller's profile.
func (a *App) UpdateUserProfile(ctx context.Context, phone string, changes record.Record) (record.Record, error) {
	if _, err := a.records.Get(ctx, record.CollectionUsers, phone); err != nil {
		return nil, err
	}
	upd, err := buildUpdate(userMutableFields, changes)
	if err != nil {
		return nil, err
	}
	updated, err := a.records.Update(ctx, record.CollectionUsers, phone, upd)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(updated), nil
}

// ListUsers returns users matching the optional classId/board filters,
// newest first, passwords stripped.
func (a *App) ListUsers(ctx context.Context, filters map[string]string) ([]record.Record, error) {
	users, err := a.records.ScanAll(ctx, record.CollectionUsers)
	if err != nil {
		return nil, err
	}
	users = record.Apply(users, filters, record.DefaultOptions())
	out := make([]record.Record, 0, len(users))
	for _, u := range users {
		out = append(out, sanitizeUser(u))
	}
	return out, nil
}

// UserStats aggregates class/board distribution over a full scan.
func (a *App) UserStats(ctx context.Context) (record.Record, error) {
	users, err := a.records.ScanAll(ctx, record.CollectionUsers)
	if err != nil {
		return nil, err
	}
	classes := map[string]int{"class10": 0, "class11": 0, "class12": 0, "neet": 0}
	boards := map[string]int{"state": 0, "cbse": 0}
	newToday := 0
	today := record.FormatTime(time.Now())[:10]
	for _, u := range users {
		if _, known := classes[u.String("classId")]; known {
			classes[u.String("classId")]++
		}
		if _, known := boards[u.String("board")]; known {
			boards[u.String("board")]++
		}
		if strings.HasPrefix(u.String(record.FieldCreatedAt), today) {
			newToday++
		}
	}
	return record.Record{
		"totalUsers":        len(users),
		"classDistribution": classes,
		"boardDistribution": boards,
		"newUsersToday":     newToday,
	}, nil
}

func sanitizeUser(user record.Record) record.Record {
	out := user.Clone()
	delete(out, "password")
	return out
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func missingOf(pairs ...any) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if missing, _ := pairs[i].(bool); missing {
			name, _ := pairs[i+1].(string)
			out = append(out, name)
		}
	}
	return out
}
