package telemetry

import (
	"sync"
	"testing"
)

func TestStoreEmptyBeforeFirstSet(t *testing.T) {
	store := NewStore()

	snap := store.Latest()
	if snap.Lap.Number != 0 || snap.SpeedMPH != 0 {
		t.Fatalf("expected zero snapshot before first set, got %+v", snap)
	}
}

func TestStoreLatestWins(t *testing.T) {
	store := NewStore()

	for lap := 1; lap <= 5; lap++ {
		store.Set(Snapshot{Lap: Lap{Number: lap}})
	}

	if got := store.Latest().Lap.Number; got != 5 {
		t.Fatalf("latest lap = %d, want 5", got)
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewStore()
	store.Set(Snapshot{Lap: Lap{Number: 1}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n := store.Latest().Lap.Number; n < 1 {
					t.Errorf("read uninitialized snapshot, lap = %d", n)
					return
				}
			}
		}()
	}
	for j := 2; j < 100; j++ {
		store.Set(Snapshot{Lap: Lap{Number: j}})
	}
	wg.Wait()
}
