package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// stubSource serves a fixed snapshot and counts calls.
type stubSource struct {
	mu    sync.Mutex
	snap  *Snapshot
	err   error
	calls int
}

func (s *stubSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.snap, s.err
}

type recordingObserver struct {
	summaries []Summary
}

func (r *recordingObserver) ObserveAnalysis(s Summary, _ time.Duration) {
	r.summaries = append(r.summaries, s)
}

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		ID: "snap-1",
		Headers: []OrderHeader{
			{OrderNumber: "1000001", Plant: "P100", SystemStatus: "REL", OrderQuantity: decimal.NewFromInt(10)},
			{OrderNumber: "1000002", Plant: "P100", SystemStatus: "REL DLV"},
			{OrderNumber: "1000003", Plant: "P200", SystemStatus: "REL DLV TECO"},
		},
		Movements: []MaterialMovement{
			mv("1000002", "101", "2024.01.15"),
			mv("1000002", "261", "2024.02.03"),
			mv("1000003", "101", "2024.03.05"),
			mv("9999999", "261", "2024.03.20"),
		},
		LoadedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestService_ListAnalyzedOrders(t *testing.T) {
	svc := NewService(&stubSource{snap: sampleSnapshot()})

	orders, err := svc.ListAnalyzedOrders(context.Background())
	if err != nil {
		t.Fatalf("ListAnalyzedOrders() error = %v", err)
	}

	type verdict struct {
		Number     string
		Logs       int
		Unfinished bool
		CrossMonth bool
	}
	var got []verdict
	for _, o := range orders {
		got = append(got, verdict{o.OrderNumber, len(o.MaterialLogs), o.IsUnfinished, o.HasCrossMonthError})
	}
	want := []verdict{
		{"1000001", 0, true, false},
		{"1000002", 2, false, true},
		{"1000003", 1, false, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListAnalyzedOrders mismatch (-want +got):\n%s", diff)
	}
}

func TestService_Idempotent(t *testing.T) {
	ctx := context.Background()
	first, err := NewService(&stubSource{snap: sampleSnapshot()}).ListAnalyzedOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewService(&stubSource{snap: sampleSnapshot()}).ListAnalyzedOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second, decimalEqual); diff != "" {
		t.Errorf("repeated analysis differs (-first +second):\n%s", diff)
	}
}

func TestService_GetAnalyzedOrder(t *testing.T) {
	svc := NewService(&stubSource{snap: sampleSnapshot()})
	ctx := context.Background()

	t.Run("existing order without movements", func(t *testing.T) {
		o, ok, err := svc.GetAnalyzedOrder(ctx, "1000001")
		if err != nil || !ok {
			t.Fatalf("GetAnalyzedOrder() = _, %v, %v; want found", ok, err)
		}
		if o.MaterialLogs == nil || len(o.MaterialLogs) != 0 {
			t.Errorf("MaterialLogs = %#v, want empty slice", o.MaterialLogs)
		}
		if !o.IsUnfinished {
			t.Error("IsUnfinished = false, want true")
		}
	})

	t.Run("absent order is not an error", func(t *testing.T) {
		_, ok, err := svc.GetAnalyzedOrder(ctx, "9999999")
		if err != nil {
			t.Fatalf("GetAnalyzedOrder() error = %v", err)
		}
		if ok {
			t.Error("found = true for order with movements but no header")
		}
	})
}

func TestService_RawLists(t *testing.T) {
	snap := sampleSnapshot()
	svc := NewService(&stubSource{snap: snap})
	ctx := context.Background()

	headers, err := svc.ListRawHeaders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(snap.Headers, headers, decimalEqual); diff != "" {
		t.Errorf("ListRawHeaders mismatch (-want +got):\n%s", diff)
	}

	movements, err := svc.ListRawMovements(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Dangling movements are still listed raw.
	if len(movements) != 4 {
		t.Errorf("len(movements) = %d, want 4", len(movements))
	}
}

func TestService_CachesBySnapshotID(t *testing.T) {
	src := &stubSource{snap: sampleSnapshot()}
	obs := &recordingObserver{}
	svc := NewService(src, WithAnalysisObserver(obs))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.ListAnalyzedOrders(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if len(obs.summaries) != 1 {
		t.Errorf("analyses = %d, want 1 for an unchanged snapshot", len(obs.summaries))
	}

	next := sampleSnapshot()
	next.ID = "snap-2"
	next.Headers = next.Headers[:1]
	src.mu.Lock()
	src.snap = next
	src.mu.Unlock()

	orders, err := svc.ListAnalyzedOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Errorf("len(orders) = %d after snapshot change, want 1", len(orders))
	}
	if len(obs.summaries) != 2 {
		t.Errorf("analyses = %d, want 2", len(obs.summaries))
	}
	want := Summary{Total: 3, Unfinished: 1, CrossMonth: 1, Normal: 1, Movements: 3}
	if diff := cmp.Diff(want, obs.summaries[0]); diff != "" {
		t.Errorf("observed summary mismatch (-want +got):\n%s", diff)
	}
}

func TestService_UnidentifiedSnapshotNotCached(t *testing.T) {
	snap := sampleSnapshot()
	snap.ID = ""
	obs := &recordingObserver{}
	svc := NewService(&stubSource{snap: snap}, WithAnalysisObserver(obs))

	for i := 0; i < 2; i++ {
		if _, err := svc.ListAnalyzedOrders(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if len(obs.summaries) != 2 {
		t.Errorf("analyses = %d, want 2", len(obs.summaries))
	}
}

func TestService_FindOrdersAndSummary(t *testing.T) {
	svc := NewService(&stubSource{snap: sampleSnapshot()})
	ctx := context.Background()

	orders, err := svc.FindOrders(ctx, Filter{Kind: FilterCrossMonth})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 || orders[0].OrderNumber != "1000002" {
		t.Errorf("FindOrders(error) = %d orders, want only 1000002", len(orders))
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 3 || sum.Unfinished != 1 || sum.CrossMonth != 1 {
		t.Errorf("Summary() = %+v", sum)
	}
}

func TestService_Errors(t *testing.T) {
	t.Run("source error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		svc := NewService(&stubSource{err: boom})
		_, err := svc.ListAnalyzedOrders(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want wrapping %v", err, boom)
		}
	})

	t.Run("cancelled context skips the source", func(t *testing.T) {
		src := &stubSource{snap: sampleSnapshot()}
		svc := NewService(src)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.ListRawHeaders(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if src.calls != 0 {
			t.Errorf("source calls = %d, want 0", src.calls)
		}
	})

	t.Run("nil snapshot is empty", func(t *testing.T) {
		svc := NewService(&stubSource{})
		orders, err := svc.ListAnalyzedOrders(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(orders) != 0 {
			t.Errorf("len(orders) = %d, want 0", len(orders))
		}
	})
}
