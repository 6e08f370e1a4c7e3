package main

import (
	"context"
	"testing"
	"time"
)

func TestRowQueue_FIFOOrder(t *testing.T) {
	q := NewRowQueue(2)
	go func() {
		ctx := context.Background()
		for i := 0; i < 5; i++ {
			_ = q.Push(ctx, Row{i})
		}
		q.Close()
	}()

	var got []int
	for q.Next() {
		vals, err := q.Values()
		if err != nil {
			t.Fatalf("Values: %v", err)
		}
		got = append(got, vals[0].(int))
	}
	want := []int{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRowQueue_PushRespectsCancellation(t *testing.T) {
	q := NewRowQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := q.Push(ctx, Row{"fills the buffer"}); err != nil {
		t.Fatalf("first push should not block: %v", err)
	}

	cancel()
	err := q.Push(ctx, Row{"blocked"})
	if err == nil {
		t.Fatal("expected Push to return an error after cancellation")
	}
}

func TestRowQueue_DrainsAfterClose(t *testing.T) {
	q := NewRowQueue(4)
	ctx := context.Background()
	_ = q.Push(ctx, Row{1})
	_ = q.Push(ctx, Row{2})
	q.Close()

	count := 0
	for q.Next() {
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 drained rows, got %d", count)
	}
	if q.Next() {
		t.Fatal("Next should keep returning false after drain")
	}
}

func TestRowQueue_BackpressureBlocksProducer(t *testing.T) {
	q := NewRowQueue(1)
	ctx := context.Background()
	_ = q.Push(ctx, Row{"one"})

	pushed := make(chan struct{})
	go func() {
		_ = q.Push(ctx, Row{"two"})
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("second push should have blocked on a full queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.Next() // drains "one", makes room
	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("second push never unblocked after drain")
	}
}
