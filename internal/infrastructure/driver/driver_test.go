package driver

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryKVExpiration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kv := NewMemoryKV()
	kv.now = func() time.Time { return now }

	if err := kv.SetEX(ctx, "session:a", "token", time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, err := kv.Get(ctx, "session:a"); err != nil || v != "token" {
		t.Fatalf("Get = %q, %v", v, err)
	}

	now = now.Add(time.Minute)
	if _, err := kv.Get(ctx, "session:a"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after expiration, got %v", err)
	}
	if ok, _ := kv.Exists(ctx, "session:a"); ok {
		t.Fatal("expired key still exists")
	}
}

func TestMemoryKVDel(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.SetEX(ctx, "k", "v", 0)
	kv.Del(ctx, "k")
	if ok, _ := kv.Exists(ctx, "k"); ok {
		t.Fatal("deleted key still exists")
	}
}

func TestMySQLAdapter(t *testing.T) {
	got := mysqlAdapter(`
SELECT "theme"
FROM   "preference"
WHERE  "user_id" = $1 AND "language" = $2`)
	want := "SELECT `theme` FROM `preference` WHERE `user_id` = ? AND `language` = ?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetDSN(t *testing.T) {
	dsn := getDSN(&DBConfig{User: "u", Password: "p", Protocol: "tcp", Host: "h", Port: 3306, Schema: "s", Query: "parseTime=true"})
	if dsn != "u:p@tcp(h:3306)/s?parseTime=true" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
}

func TestLogQueryArgsTruncates(t *testing.T) {
	long := make([]byte, 100)
	args := logQueryArgs([]interface{}{long, "short", 1})
	if s, ok := args[0].(string); !ok || len(s) == 0 {
		t.Fatalf("unexpected arg %v", args[0])
	}
	if args[1] != "short" || args[2] != 1 {
		t.Fatalf("unexpected args %v", args)
	}
}
