package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32

	const callers = 16
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	var shared int32
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-release
			val, err, _ := g.Do("standings:league-1", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(10 * time.Millisecond)
				return 47, nil
			})
			if err != nil {
				t.Errorf("do: %v", err)
				return
			}
			if points, ok := val.(int); ok && points == 47 {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("executions = %d, want 1", got)
	}
	if got := atomic.LoadInt32(&shared); got != callers {
		t.Fatalf("callers sharing the result = %d, want %d", got, callers)
	}
}

func TestSingleFlight_RunsAgainAfterCompletion(t *testing.T) {
	var g SingleFlight
	runs := 0

	for i := 0; i < 3; i++ {
		if _, err, dedup := g.Do("leaderboard:s49", func() (any, error) {
			runs++
			return nil, nil
		}); err != nil || dedup {
			t.Fatalf("call %d: err=%v dedup=%t", i, err, dedup)
		}
	}

	if runs != 3 {
		t.Fatalf("runs = %d, want 3 for sequential calls", runs)
	}
}

func TestSingleFlight_SharesLeaderError(t *testing.T) {
	var g SingleFlight
	wantErr := errors.New("backing store down")

	_, err, _ := g.Do("standings:league-2", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
