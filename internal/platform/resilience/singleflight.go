package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution; every caller gets the single result. Later calls with the
// same key run fresh.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done  chan struct{}
	value any
	err   error
}

func (f *SingleFlight) Do(key string, fn func() (any, error)) (any, error) {
	f.mu.Lock()
	if f.inflight == nil {
		f.inflight = make(map[string]*flightResult)
	}
	if r, ok := f.inflight[key]; ok {
		f.mu.Unlock()
		<-r.done
		return r.value, r.err
	}

	r := &flightResult{done: make(chan struct{})}
	f.inflight[key] = r
	f.mu.Unlock()

	r.value, r.err = fn()
	close(r.done)

	f.mu.Lock()
	delete(f.inflight, key)
	f.mu.Unlock()

	return r.value, r.err
}
