package bff

import (
	"sync"
	"testing"
)

func TestLoadingReferenceCount(t *testing.T) {
	l := NewLoading()
	l.Begin()
	l.Begin()
	l.End()
	if !l.Visible() {
		t.Fatal("expected indicator visible while one call remains")
	}
	l.End()
	if l.Visible() {
		t.Fatal("expected indicator hidden after last call")
	}
	l.End()
	if l.InFlight() != 0 {
		t.Fatalf("count must not go negative, got %d", l.InFlight())
	}
}

func TestLoadingConcurrentBalance(t *testing.T) {
	l := NewLoading()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Begin()
			l.End()
		}()
	}
	wg.Wait()
	if l.Visible() {
		t.Fatalf("expected balanced count, got %d", l.InFlight())
	}
}
