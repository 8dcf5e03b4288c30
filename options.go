package zekku

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand/v2"
)

// config is the shared set of tunables behind every exported Option. It is
// never exposed directly; Pool, PointTree, and BoxTree each read the fields
// relevant to them and discard the rest.
type config struct {
	leafCapacity int
	failFast     bool
	rng          *mrand.Rand
	logger       *slog.Logger
}

func defaultConfig() config {
	return config{
		leafCapacity: 32,
		failFast:     true,
		rng:          newDefaultRand(),
		logger:       slog.New(slog.NewTextHandler(discardWriter{}, nil)),
	}
}

// newDefaultRand seeds a fresh generator from crypto/rand, per pool/tree
// instance rather than from a shared process-global source (spec.md's design
// notes flag wall-clock/global PRNG seeding as an anti-pattern to fix).
func newDefaultRand() *mrand.Rand {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing is exceptional; fall back to a fixed seed
		// rather than leaving the tree without a usable PRNG.
		return mrand.New(mrand.NewPCG(1, 2))
	}
	s1 := binary.LittleEndian.Uint64(seed[0:8])
	s2 := binary.LittleEndian.Uint64(seed[8:16])
	return mrand.New(mrand.NewPCG(s1, s2))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Option configures a Pool, PointTree, or BoxTree at construction.
type Option func(*config)

// WithLeafCapacity sets the bucket capacity nc for each leaf node (default
// 32).
func WithLeafCapacity(nc int) Option {
	return func(c *config) { c.leafCapacity = nc }
}

// WithFailFast controls what Insert does when a position/box falls outside
// the world box, or when the node pool outgrows the handle integer kind:
// failFast=true (the default, matching the reference implementation) panics
// with the typed error; false returns it instead.
func WithFailFast(failFast bool) Option {
	return func(c *config) { c.failFast = failFast }
}

// WithRand injects the PRNG the Pool uses to choose a randomised probe
// start. Supplying one makes probe sequences, and therefore the handles
// Allocate returns, deterministic for tests.
func WithRand(r *mrand.Rand) Option {
	return func(c *config) { c.rng = r }
}

// WithLogger attaches a structured logger; Dump emits a companion summary
// through it in addition to its line-oriented output. A nil logger (the
// default) discards all log output, mirroring hupe1980/vecgo's NoopLogger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
