package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinCapacity(t *testing.T) {
	l := New(3, 0)

	for i := 0; i < 3; i++ {
		if !l.Allow("ip1") {
			t.Fatalf("request %d denied within capacity", i+1)
		}
	}
	if l.Allow("ip1") {
		t.Fatal("request beyond capacity allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, 0)

	if !l.Allow("a") {
		t.Fatal("first request for a denied")
	}
	if l.Allow("a") {
		t.Fatal("second request for a allowed")
	}
	if !l.Allow("b") {
		t.Fatal("exhausting a must not affect b")
	}
}

func TestRefill(t *testing.T) {
	l := New(1, 1000) // refills fast enough for a short sleep

	if !l.Allow("k") {
		t.Fatal("first request denied")
	}
	if l.Allow("k") {
		t.Fatal("bucket not empty after first request")
	}

	time.Sleep(5 * time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("bucket did not refill")
	}
}

func TestRefillCapsAtCapacity(t *testing.T) {
	l := New(2, 1000)

	l.Allow("k")
	l.Allow("k")
	time.Sleep(10 * time.Millisecond)

	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow("k") {
			allowed++
		}
	}
	if allowed != 2 {
		t.Fatalf("allowed %d after refill, want capacity 2", allowed)
	}
}
