package cache

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ekinsoft/webkit/cache/storage"
)

const (
	// DefaultTTL is applied when Set is called without an explicit TTL.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxSize bounds the number of live entries per manager.
	DefaultMaxSize = 100

	// DefaultCleanupInterval is how often the background sweep runs.
	DefaultCleanupInterval = 60 * time.Second

	// DefaultNamespace prefixes keys on shared backends.
	DefaultNamespace = "cache"
)

// Options configures a Manager. The zero value is valid: an in-memory
// cache with the defaults above.
type Options struct {

	// TTL is the default time-to-live for entries stored via Set.
	TTL time.Duration

	// MaxSize is the maximum number of live entries. Exceeding it
	// evicts the oldest-inserted entry. Must not be negative.
	MaxSize int

	// Namespace isolates this manager's keys on a shared backend.
	// Two managers sharing one store must use distinct namespaces.
	Namespace string

	// Store is the backing medium. Defaults to a fresh MemoryStore,
	// which is private to this manager. File and session stores are
	// typically shared between managers.
	Store storage.Store

	// CleanupInterval is the background sweep period. Zero selects
	// the default; a negative value disables the sweep entirely.
	CleanupInterval time.Duration

	// SingleFlight collapses concurrent GetOrSet calls on the same
	// cold key into one compute invocation. Off by default: the
	// historical contract lets racing callers each compute, last
	// writer wins.
	SingleFlight bool

	// Logger receives swallowed write failures. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Metrics receives cache lifecycle events. Defaults to NopMetrics.
	Metrics Metrics
}

var errBadMaxSize = errors.New("cache: MaxSize must not be negative")

// withDefaults resolves the zero values. Malformed options are the
// one thing that fails fast here.
func (o Options) withDefaults() (Options, error) {
	if o.MaxSize < 0 {
		return o, errBadMaxSize
	}
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.Store == nil {
		o.Store = storage.NewMemoryStore()
	}
	if o.CleanupInterval == 0 {
		o.CleanupInterval = DefaultCleanupInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = NopMetrics{}
	}
	return o, nil
}
