package source

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Basic functionality tests

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	// NoStringID should always resolve to the empty string
	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("expected NoStringID to return empty string, got %q, ok=%v", s, ok)
	}

	// Intern a new string
	id1 := interner.Intern("hello")
	if id1 == NoStringID {
		t.Error("Intern should not return NoStringID for a non-empty string")
	}

	// interning the same string again should return the same ID
	id2 := interner.Intern("hello")
	if id1 != id2 {
		t.Errorf("Intern should return the same ID for the same string: %d != %d", id1, id2)
	}

	// Lookup should return the original string
	if s, ok := interner.Lookup(id1); !ok || s != "hello" {
		t.Errorf("Lookup returned the wrong string: %q, ok=%v", s, ok)
	}

	// interning a different string should return a different ID
	id3 := interner.Intern("world")
	if id3 == id1 {
		t.Error("distinct strings should have distinct IDs")
	}

	// Len should count NoStringID
	if interner.Len() != 3 { // "", "hello", "world"
		t.Errorf("expected Len 3, got %d", interner.Len())
	}
}

func TestInternerBytes(t *testing.T) {
	interner := NewInterner()

	id1 := interner.InternBytes([]byte("test"))
	id2 := interner.Intern("test")

	if id1 != id2 {
		t.Errorf("InternBytes and Intern should return the same ID for the same string: %d != %d", id1, id2)
	}
}

func TestInternerHas(t *testing.T) {
	interner := NewInterner()

	if !interner.Has(NoStringID) {
		t.Error("Has should return true for NoStringID")
	}

	id := interner.Intern("test")
	if !interner.Has(id) {
		t.Error("Has should return true for a valid ID")
	}

	// a nonexistent ID
	if interner.Has(StringID(9999)) {
		t.Error("Has should return false for a nonexistent ID")
	}
}

func TestInternerMustLookup(t *testing.T) {
	interner := NewInterner()

	id := interner.Intern("test")
	s := interner.MustLookup(id)
	if s != "test" {
		t.Errorf("MustLookup returned the wrong string: %q", s)
	}

	// an invalid ID should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic for an invalid ID")
		}
	}()
	interner.MustLookup(StringID(9999))
}

func TestInternerSnapshot(t *testing.T) {
	interner := NewInterner()

	interner.Intern("hello")
	interner.Intern("world")

	snapshot := interner.Snapshot()
	if len(snapshot) != 3 { // "", "hello", "world"
		t.Errorf("expected snapshot to hold 3 entries, got %d", len(snapshot))
	}

	// the snapshot must be a copy: mutating it shouldn't affect the interner
	snapshot[0] = "modified"
	if s, _ := interner.Lookup(NoStringID); s != "" {
		t.Error("mutating a snapshot should not affect the interner")
	}
}

// Concurrent access tests

func TestInternerConcurrentIntern(t *testing.T) {
	interner := NewInterner()
	const numGoroutines = 100
	const numStrings = 1000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// every goroutine interns the same set of strings
	for range numGoroutines {
		go func() {
			defer wg.Done()
			for i := range numStrings {
				s := fmt.Sprintf("string_%d", i)
				interner.Intern(s)
			}
		}()
	}

	wg.Wait()

	// every string should be interned exactly once (no duplicates)
	expectedLen := numStrings + 1 // +1 for NoStringID
	if interner.Len() != expectedLen {
		t.Errorf("expected %d strings, got %d", expectedLen, interner.Len())
	}

	// every string should be reachable with a unique ID
	ids := make(map[StringID]bool)
	for i := range numStrings {
		s := fmt.Sprintf("string_%d", i)
		id := interner.Intern(s)
		if ids[id] {
			t.Errorf("duplicate ID for string %q: %d", s, id)
		}
		ids[id] = true

		if retrieved, ok := interner.Lookup(id); !ok || retrieved != s {
			t.Errorf("Lookup returned the wrong string for %q: %q, ok=%v", s, retrieved, ok)
		}
	}
}

func TestInternerConcurrentMixed(t *testing.T) {
	interner := NewInterner()
	const numGoroutines = 50
	const iterations = 1000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// half the goroutines Intern, half Lookup/Has
	for g := range numGoroutines {
		go func() {
			defer wg.Done()

			if g%2 == 0 {
				for i := range iterations {
					s := fmt.Sprintf("str_%d", i%100)
					interner.Intern(s)
				}
			} else {
				for i := range iterations {
					id := StringID(i % 50)
					interner.Has(id)
					interner.Lookup(id)
				}
			}
		}()
	}

	wg.Wait()

	// Len should never panic and should return a sane value
	length := interner.Len()
	if length < 1 || length > 150 {
		t.Errorf("unexpected Len: %d", length)
	}
}

func TestInternerConcurrentSnapshot(t *testing.T) {
	interner := NewInterner()
	const numGoroutines = 20
	const numSnapshots = 100

	// pre-populate the interner
	for i := range 100 {
		interner.Intern(fmt.Sprintf("initial_%d", i))
	}

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// half the goroutines take Snapshots, half Intern
	for g := range numGoroutines {
		go func() {
			defer wg.Done()

			if g%2 == 0 {
				for range numSnapshots {
					snapshot := interner.Snapshot()
					if len(snapshot) < 101 { // at least the initial strings + NoStringID
						t.Errorf("snapshot too short: %d", len(snapshot))
					}
				}
			} else {
				for i := range numSnapshots {
					interner.Intern(fmt.Sprintf("concurrent_%d_%d", g, i))
				}
			}
		}()
	}

	wg.Wait()
}

// Deadlock check

func TestInternerNoDeadlock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deadlock test in short mode")
	}

	interner := NewInterner()
	const timeout = 5 // seconds
	const numGoroutines = 100

	done := make(chan bool, 1)

	go func() {
		var wg sync.WaitGroup
		wg.Add(numGoroutines)

		for range numGoroutines {
			go func() {
				defer wg.Done()

				// mix every operation together
				for i := range 1000 {
					switch i % 7 {
					case 0:
						interner.Intern(fmt.Sprintf("s_%d", i))
					case 1:
						interner.InternBytes(fmt.Appendf([]byte{}, "s_%d", i))
					case 2:
						interner.Lookup(StringID(i % 100))
					case 3:
						interner.Has(StringID(i % 100))
					case 4:
						interner.Len()
					case 5:
						interner.Snapshot()
					case 6:
						if id := interner.Intern(fmt.Sprintf("s_%d", i%50)); interner.Has(id) {
							interner.MustLookup(id)
						}
					}
				}
			}()
		}

		wg.Wait()
		done <- true
	}()

	select {
	case <-done:
		// finished cleanly
	case <-time.After(timeout * time.Second):
		t.Fatal("test hung - possible deadlock")
	}
}

// Race-condition check (run with -race)

func TestInternerRaceConditions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race test in short mode")
	}

	interner := NewInterner()
	const numGoroutines = 100
	const numOps = 10000

	// a fixed set of strings to interleave operations over
	strings := make([]string, 100)
	for i := range strings {
		strings[i] = fmt.Sprintf("race_test_string_%d", i)
	}

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()

			for i := range numOps {
				str := strings[i%len(strings)]

				id := interner.Intern(str)
				if !interner.Has(id) {
					t.Errorf("Has returned false for a just-interned ID: %d", id)
				}
				if retrieved, ok := interner.Lookup(id); !ok || retrieved != str {
					t.Errorf("Lookup returned the wrong string: wanted %q, got %q", str, retrieved)
				}

				// Len/Snapshot must not panic
				_ = interner.Len()
				if i%100 == 0 {
					_ = interner.Snapshot()
				}
			}
		}()
	}

	wg.Wait()

	// final integrity check
	for _, str := range strings {
		id := interner.Intern(str)
		if retrieved, ok := interner.Lookup(id); !ok || retrieved != str {
			t.Errorf("final check: wrong string for %q: %q", str, retrieved)
		}
	}
}

// String-copy correctness check

func TestInternerStringCopy(t *testing.T) {
	interner := NewInterner()

	// build a string from a buffer we then mutate
	buf := []byte("original")
	id := interner.InternBytes(buf)

	// mutate the source buffer
	buf[0] = 'X'

	// the interner should have kept its own copy
	if s, ok := interner.Lookup(id); !ok || s != "original" {
		t.Errorf("interner should retain a copy of the string, got %q", s)
	}
}

// Stress test for memory/performance characteristics

func TestInternerStress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	interner := NewInterner()
	const numGoroutines = 50
	const numStrings = 10000

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for g := range numGoroutines {
		go func(gid int) {
			defer wg.Done()

			// each goroutine works its own strings plus a shared set to
			// exercise deduplication
			for i := range numStrings {
				// 50% unique per goroutine, 50% shared
				var s string
				if i%2 == 0 {
					s = fmt.Sprintf("unique_%d_%d", gid, i)
				} else {
					s = fmt.Sprintf("shared_%d", i%1000)
				}

				id := interner.Intern(s)
				if retrieved, ok := interner.Lookup(id); !ok || retrieved != s {
					t.Errorf("Lookup returned the wrong string")
				}
			}
		}(g)
	}

	wg.Wait()

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)

	// there shouldn't be a runaway memory leak
	allocDiff := after.Alloc - before.Alloc
	t.Logf("memory used: %d bytes, strings in interner: %d", allocDiff, interner.Len())

	// expected string count:
	// unique: numGoroutines * numStrings / 2
	// shared: max 1000 (mod 1000)
	// plus NoStringID
	expectedMin := 1000 // at least the shared strings + NoStringID
	expectedMax := numGoroutines*numStrings/2 + 1000 + 1

	actualLen := interner.Len()
	if actualLen < expectedMin || actualLen > expectedMax {
		t.Errorf("unexpected string count: %d (expected between %d and %d)",
			actualLen, expectedMin, expectedMax)
	}
}

// Benchmarks

func BenchmarkInternerIntern(b *testing.B) {
	interner := NewInterner()
	strings := make([]string, 1000)
	for i := range strings {
		strings[i] = fmt.Sprintf("benchmark_string_%d", i)
	}

	b.ResetTimer()
	for i := range b.N {
		interner.Intern(strings[i%len(strings)])
	}
}

func BenchmarkInternerInternUnique(b *testing.B) {
	interner := NewInterner()

	b.ResetTimer()
	for i := range b.N {
		interner.Intern(fmt.Sprintf("unique_string_%d", i))
	}
}

func BenchmarkInternerInternDuplicate(b *testing.B) {
	interner := NewInterner()
	const str = "duplicate_string"

	// warm the interner up first
	interner.Intern(str)

	b.ResetTimer()
	for b.Loop() {
		interner.Intern(str)
	}
}

func BenchmarkInternerLookup(b *testing.B) {
	interner := NewInterner()
	ids := make([]StringID, 1000)
	for i := range ids {
		ids[i] = interner.Intern(fmt.Sprintf("string_%d", i))
	}

	b.ResetTimer()
	for i := range b.N {
		interner.Lookup(ids[i%len(ids)])
	}
}

func BenchmarkInternerHas(b *testing.B) {
	interner := NewInterner()
	ids := make([]StringID, 1000)
	for i := range ids {
		ids[i] = interner.Intern(fmt.Sprintf("string_%d", i))
	}

	b.ResetTimer()
	for i := range b.N {
		interner.Has(ids[i%len(ids)])
	}
}

func BenchmarkInternerSnapshot(b *testing.B) {
	interner := NewInterner()
	for i := range 1000 {
		interner.Intern(fmt.Sprintf("string_%d", i))
	}

	b.ResetTimer()
	for b.Loop() {
		_ = interner.Snapshot()
	}
}

// Concurrent-access benchmarks

func BenchmarkInternerConcurrentIntern(b *testing.B) {
	interner := NewInterner()
	strings := make([]string, 100)
	for i := range strings {
		strings[i] = fmt.Sprintf("concurrent_string_%d", i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			interner.Intern(strings[i%len(strings)])
			i++
		}
	})
}

func BenchmarkInternerConcurrentInternUnique(b *testing.B) {
	interner := NewInterner()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			// each goroutine mints its own unique strings
			interner.Intern(fmt.Sprintf("unique_%d_%d", b.N, i))
			i++
		}
	})
}

func BenchmarkInternerConcurrentLookup(b *testing.B) {
	interner := NewInterner()
	ids := make([]StringID, 100)
	for i := range ids {
		ids[i] = interner.Intern(fmt.Sprintf("string_%d", i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			interner.Lookup(ids[i%len(ids)])
			i++
		}
	})
}

func BenchmarkInternerConcurrentMixed(b *testing.B) {
	interner := NewInterner()

	// pre-populate
	ids := make([]StringID, 100)
	for i := range ids {
		ids[i] = interner.Intern(fmt.Sprintf("string_%d", i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			switch i % 4 {
			case 0:
				interner.Intern(fmt.Sprintf("string_%d", i%100))
			case 1:
				interner.Lookup(ids[i%len(ids)])
			case 2:
				interner.Has(ids[i%len(ids)])
			case 3:
				_ = interner.Len()
			}
			i++
		}
	})
}

// Benchmark for comparison against a lock-free version

func BenchmarkInternerSequentialWorkload(b *testing.B) {
	interner := NewInterner()

	b.ResetTimer()
	for i := range b.N {
		// a typical sequential workload
		id := interner.Intern(fmt.Sprintf("string_%d", i%1000))
		interner.Has(id)
		interner.Lookup(id)
	}
}
