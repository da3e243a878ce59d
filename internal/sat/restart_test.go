package sat

import "testing"

func TestWindowAvg(t *testing.T) {
	w := newWindowAvg(3)
	if w.full() {
		t.Fatalf("new window should not be full")
	}
	w.add(1)
	w.add(2)
	w.add(3)
	if !w.full() {
		t.Fatalf("window should be full after 3 adds of capacity 3")
	}
	if got, want := w.avg(), 2.0; got != want {
		t.Errorf("avg() = %v, want %v", got, want)
	}

	w.add(9) // evicts the 1
	if got, want := w.avg(), (2.0+3.0+9.0)/3; got != want {
		t.Errorf("avg() after eviction = %v, want %v", got, want)
	}
}

func TestLuby(t *testing.T) {
	// 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8 ...
	want := []int64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		if got := luby(int64(i)); got != w {
			t.Errorf("luby(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestRestartController_glueWantsRestartAfterWindowsFull(t *testing.T) {
	cfg := DefaultConfig
	cfg.RestartShortWindow = 2
	cfg.RestartLongWindow = 4
	cfg.RestartMargin = 0.8
	r := newRestartController(cfg)

	// Feed a long run of low glue (builds up the long-window baseline),
	// then a burst of high glue in the short window: short*margin should
	// exceed the long average and trigger a restart.
	for i := 0; i < 4; i++ {
		r.onConflict(2, 10)
	}
	if r.wantsRestart(10) {
		t.Fatalf("should not want a restart while short == long")
	}
	r.onConflict(20, 10)
	r.onConflict(20, 10)
	if !r.wantsRestart(10) {
		t.Errorf("expected a restart once recent glue average spikes above the long-term average")
	}
}

func TestRestartController_neverRestarts(t *testing.T) {
	cfg := DefaultConfig
	cfg.Restart = RestartNever
	r := newRestartController(cfg)
	for i := 0; i < 10000; i++ {
		r.onConflict(1, 1)
	}
	if r.wantsRestart(1) {
		t.Errorf("RestartNever must never request a restart")
	}
}
