package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
)

type Collector struct {
	requests uint64
	errors   uint64

	mu    sync.Mutex
	codes map[string]uint64
}

func NewCollector() *Collector {
	return &Collector{codes: make(map[string]uint64)}
}

func (c *Collector) IncRequests() {
	atomic.AddUint64(&c.requests, 1)
}

// IncErrors counts 5xx responses.
func (c *Collector) IncErrors() {
	atomic.AddUint64(&c.errors, 1)
}

func (c *Collector) IncErrorCode(code string) {
	c.mu.Lock()
	c.codes[code]++
	c.mu.Unlock()
}

func (c *Collector) Snapshot() (uint64, uint64) {
	return atomic.LoadUint64(&c.requests), atomic.LoadUint64(&c.errors)
}

func (c *Collector) ErrorCodes() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(c.codes))
	for code, count := range c.codes {
		out[code] = count
	}
	return out
}

// WriteText renders the counters in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) {
	var requests, errors uint64
	codes := map[string]uint64{}
	if c != nil {
		requests, errors = c.Snapshot()
		codes = c.ErrorCodes()
	}
	_, _ = fmt.Fprintf(w, "# HELP placement_requests_total Total number of HTTP requests.\n")
	_, _ = fmt.Fprintf(w, "# TYPE placement_requests_total counter\n")
	_, _ = fmt.Fprintf(w, "placement_requests_total %d\n", requests)
	_, _ = fmt.Fprintf(w, "# HELP placement_errors_total Total number of 5xx HTTP responses.\n")
	_, _ = fmt.Fprintf(w, "# TYPE placement_errors_total counter\n")
	_, _ = fmt.Fprintf(w, "placement_errors_total %d\n", errors)
	_, _ = fmt.Fprintf(w, "# HELP placement_error_responses_total Error responses by error code.\n")
	_, _ = fmt.Fprintf(w, "# TYPE placement_error_responses_total counter\n")
	keys := make([]string, 0, len(codes))
	for code := range codes {
		keys = append(keys, code)
	}
	sort.Strings(keys)
	for _, code := range keys {
		_, _ = fmt.Fprintf(w, "placement_error_responses_total{code=%q} %d\n", code, codes[code])
	}
}
