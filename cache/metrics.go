package cache

/*
Metrics is the set of events a manager reports about itself. The
manager calls these methods as things happen; implementations decide
what counting or exporting means.
*/
type Metrics interface {

	// Hit is called when Get returns a live value.
	Hit()

	// Miss is called when Get finds nothing usable.
	Miss()

	// Expire is called when an entry is removed because its TTL ran
	// out, whether lazily on read or during a sweep.
	Expire()

	// Eviction is called when an entry is removed to make room,
	// having done nothing wrong besides being oldest.
	Eviction()

	// WriteFailure is called when a write to a quota-bounded backend
	// still fails after the cleanup-and-retry sequence. The write is
	// silently dropped; this hook is the only place that sees it.
	WriteFailure()
}

// NopMetrics ignores every event. It is the default, so the manager
// never has to nil-check its metrics.
type NopMetrics struct{}

func (NopMetrics) Hit()          {}
func (NopMetrics) Miss()         {}
func (NopMetrics) Expire()       {}
func (NopMetrics) Eviction()     {}
func (NopMetrics) WriteFailure() {}
