package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu sync.Mutex
	// seqs simulates sys_sequences: one counter per key
	seqs  map[string]int64
	calls int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{seqs: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	key, _ := args[0].(string)
	var increment int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			increment = v
		}
	}

	m.seqs[key] += increment
	return &mockRow{val: m.seqs[key]}
}

func TestGetNextNumber_ReceiptFormat(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := ReceiptConfig()
	period := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PR2026080001" {
		t.Errorf("expected PR2026080001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PR2026080002" {
		t.Errorf("expected PR2026080002, got %s", num)
	}
}

func TestGetNextNumber_MonthlyReset(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := ReceiptConfig()

	august := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	september := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	// Fill august counter
	for i := 0; i < 3; i++ {
		if _, err := svc.GetNextNumber(ctx, cfg, nil, august); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// New month starts from 0001 because the sequence key embeds the month
	num, err := svc.GetNextNumber(ctx, cfg, nil, september)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PR2026090001" {
		t.Errorf("expected PR2026090001, got %s", num)
	}
}

func TestGetNextNumber_YearlyFormat(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("ADJ")
	period := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ADJ202600001" {
		t.Errorf("expected ADJ202600001, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := ReceiptConfig()
	period := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call allocates range 1..10 from DB
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PR2026080001" {
		t.Errorf("expected PR2026080001, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call, got %d", q.calls)
	}

	// Subsequent calls come from memory
	for i := 0; i < 9; i++ {
		if _, err := svc.GetNextNumber(ctx, cfg, opts, period); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if q.calls != 1 {
		t.Errorf("expected range to be served from memory, got %d DB calls", q.calls)
	}

	// Range exhausted, next call refills from DB
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PR2026080011" {
		t.Errorf("expected PR2026080011, got %s", num)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
}
