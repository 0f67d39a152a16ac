package clock

import (
	"sync"
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock_Frozen(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewFakeClock(fixedTime)

	first := clock.Now()
	second := clock.Now()
	if !first.Equal(fixedTime) || !second.Equal(fixedTime) {
		t.Errorf("FakeClock.Now() = %v, %v; want %v twice", first, second, fixedTime)
	}
}

func TestFakeClock_SetAndAdvance(t *testing.T) {
	initialTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initialTime)

	tests := []struct {
		name  string
		apply func()
		want  time.Time
	}{
		{
			name:  "advance by duration",
			apply: func() { clock.Advance(2 * time.Hour) },
			want:  initialTime.Add(2 * time.Hour),
		},
		{
			name:  "set backwards",
			apply: func() { clock.Set(initialTime.Add(-24 * time.Hour)) },
			want:  initialTime.Add(-24 * time.Hour),
		},
		{
			name: "advances accumulate",
			apply: func() {
				clock.Set(initialTime)
				clock.Advance(time.Hour)
				clock.Advance(30 * time.Minute)
			},
			want: initialTime.Add(90 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.apply()
			if got := clock.Now(); !got.Equal(tt.want) {
				t.Errorf("Now() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFakeClock_Tick(t *testing.T) {
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	clock.Tick(time.Second)

	for i := 0; i < 3; i++ {
		want := start.Add(time.Duration(i) * time.Second)
		if got := clock.Now(); !got.Equal(want) {
			t.Errorf("reading %d = %v, want %v", i, got, want)
		}
	}

	clock.Tick(0)
	a, b := clock.Now(), clock.Now()
	if !a.Equal(b) {
		t.Errorf("Tick(0) should freeze the clock: %v != %v", a, b)
	}
}

func TestFakeClock_ConcurrentReaders(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	clock.Tick(time.Millisecond)

	const readers = 8
	const reads = 100

	seen := make(chan time.Time, readers*reads)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < reads; j++ {
				seen <- clock.Now()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		unique[ts] = true
	}
	if len(unique) != readers*reads {
		t.Errorf("got %d distinct readings, want %d", len(unique), readers*reads)
	}
}
