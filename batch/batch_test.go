package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_CoalescesWithinWindow(t *testing.T) {
	s := New(WithWindow(50 * time.Millisecond))
	ctx := t.Context()

	var calls atomic.Int32
	fn := func(_ context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("summary"), nil
	}

	const n = 5
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Do(ctx, "summary-2024-01", fn)
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			results[i] = string(v)
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn ran %d times, want 1", got)
	}
	for i := range n {
		if results[i] != "summary" {
			t.Fatalf("caller %d: got %q, want %q", i, results[i], "summary")
		}
	}
}

func TestScheduler_NewBatchAfterFlush(t *testing.T) {
	s := New(WithWindow(10 * time.Millisecond))
	ctx := t.Context()

	var calls atomic.Int32
	fn := func(_ context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("v"), nil
	}

	if _, err := s.Do(ctx, "k", fn); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if _, err := s.Do(ctx, "k", fn); err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("fn ran %d times across two windows, want 2", got)
	}
}

func TestScheduler_KeysHaveIndependentTimers(t *testing.T) {
	s := New(WithWindow(20 * time.Millisecond))
	ctx := t.Context()

	// A slow flush on one key must not delay another key's flush.
	slowRunning := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = s.Do(ctx, "slow", func(_ context.Context) ([]byte, error) {
			close(slowRunning)
			<-release
			return nil, nil
		})
	}()
	<-slowRunning

	start := time.Now()
	if _, err := s.Do(ctx, "fast", func(_ context.Context) ([]byte, error) {
		return []byte("ok"), nil
	}); err != nil {
		t.Fatalf("fast batch: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("fast key blocked behind slow key for %s", elapsed)
	}
	close(release)
}

func TestScheduler_ErrorFansOutToAllWaiters(t *testing.T) {
	s := New(WithWindow(50 * time.Millisecond))
	ctx := t.Context()
	boom := errors.New("boom")

	fn := func(_ context.Context) ([]byte, error) {
		return nil, boom
	}

	const n = 3
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.Do(ctx, "k", fn)
		}()
	}
	wg.Wait()

	for i := range n {
		if !errors.Is(errs[i], boom) {
			t.Fatalf("caller %d: got %v, want the batch error", i, errs[i])
		}
	}
}

func TestScheduler_CancelledCallerDoesNotFailBatch(t *testing.T) {
	s := New(WithWindow(30 * time.Millisecond))

	var calls atomic.Int32
	fn := func(_ context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("v"), nil
	}

	cancelCtx, cancel := context.WithCancel(t.Context())
	var wg sync.WaitGroup

	wg.Add(1)
	var cancelledErr error
	go func() {
		defer wg.Done()
		_, cancelledErr = s.Do(cancelCtx, "k", fn)
	}()

	wg.Add(1)
	var patientVal []byte
	var patientErr error
	go func() {
		defer wg.Done()
		patientVal, patientErr = s.Do(t.Context(), "k", fn)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	wg.Wait()

	if !errors.Is(cancelledErr, context.Canceled) {
		t.Fatalf("cancelled caller: got %v, want context.Canceled", cancelledErr)
	}
	if patientErr != nil {
		t.Fatalf("patient caller: %v", patientErr)
	}
	if string(patientVal) != "v" {
		t.Fatalf("patient caller: got %q, want %q", patientVal, "v")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("fn ran %d times, want 1", got)
	}
}
