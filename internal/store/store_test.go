package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncrAndTotals(t *testing.T) {
	s := New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, Totals{}, s.GetTotals())

	ctx := context.Background()
	s.Incr(ctx)
	s.Incr(ctx)
	s.Incr(ctx)

	got := s.GetTotals()
	assert.Equal(t, int64(3), got.Total)
	assert.Equal(t, int64(3), got.Today)
}

func TestTodayRollsOver(t *testing.T) {
	s := New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Incr(context.Background())
	// 日付が変わった体で当日分だけリセットされる
	s.mu.Lock()
	s.day = "2000-01-01"
	s.mu.Unlock()

	got := s.GetTotals()
	assert.Equal(t, int64(1), got.Total)
	assert.Equal(t, int64(0), got.Today)
}
