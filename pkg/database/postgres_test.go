package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"agenda/config"
)

func TestConnString_EscapesCredentials(t *testing.T) {
	got := connString(config.PostgresConfig{
		Host:     "db",
		Port:     "5432",
		Username: "agenda",
		Password: "p@ss/word?",
		DBName:   "agenda",
		SSLMode:  "disable",
	})

	want := "postgres://agenda:p%40ss%2Fword%3F@db:5432/agenda?sslmode=disable"
	if got != want {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestQueryTracer(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		err     error
		level   string
		logged  bool
	}{
		{name: "fast query", elapsed: 10 * time.Millisecond},
		{name: "slow query", elapsed: 300 * time.Millisecond, logged: true, level: "warn"},
		{name: "failed query", elapsed: time.Millisecond, err: errors.New("boom"), logged: true, level: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
			tracer := &queryTracer{
				logger: zap.New(core),
				slow:   200 * time.Millisecond,
				now:    func() time.Time { return now },
			}

			ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
			now = now.Add(tt.elapsed)
			tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1"), Err: tt.err})

			if !tt.logged {
				if logs.Len() != 0 {
					t.Errorf("want no log entries, got %d", logs.Len())
				}
				return
			}
			if logs.Len() != 1 {
				t.Fatalf("want 1 log entry, got %d", logs.Len())
			}
			if got := logs.All()[0].Level.String(); got != tt.level {
				t.Errorf("level: want %s, got %s", tt.level, got)
			}
		})
	}
}
