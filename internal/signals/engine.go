package signals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/quantsignal/pkg/models"
)

var (
	// ErrEmptyEntity is returned when the universe contains a blank name.
	ErrEmptyEntity = errors.New("entity name is empty")
	// ErrDuplicateEntity is returned when the universe lists a name twice.
	ErrDuplicateEntity = errors.New("duplicate entity")
	// ErrSensitivityOutOfRange is returned for a sensitivity outside
	// [MinSensitivity, MaxSensitivity].
	ErrSensitivityOutOfRange = errors.New("sensitivity out of range")
)

// Engine runs render cycles over a fixed universe. It owns the random
// generator; draws from concurrent cycles are serialized.
type Engine struct {
	universe    []string
	mean        float64
	sensitivity float64

	mu  sync.Mutex
	rng *rand.Rand

	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random generator. Tests pass a seeded generator to
// make cycles reproducible.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed seeds the engine's generator. A zero seed leaves it unseeded.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = NewSeededRand(seed)
		}
	}
}

// WithMean overrides the sampling mean.
func WithMean(mean float64) Option {
	return func(e *Engine) { e.mean = mean }
}

// WithSensitivity sets the default sensitivity used when a cycle does not
// request one.
func WithSensitivity(s float64) Option {
	return func(e *Engine) { e.sensitivity = s }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewSeededRand returns a PCG-backed generator for the given seed.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEngine validates the universe and builds an engine.
func NewEngine(universe []string, opts ...Option) (*Engine, error) {
	seen := make(map[string]struct{}, len(universe))
	for i, name := range universe {
		if name == "" {
			return nil, fmt.Errorf("universe[%d]: %w", i, ErrEmptyEntity)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("universe[%d] %q: %w", i, name, ErrDuplicateEntity)
		}
		seen[name] = struct{}{}
	}

	e := &Engine{
		universe:    append([]string(nil), universe...),
		mean:        DefaultMean,
		sensitivity: DefaultSensitivity,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if err := ValidateSensitivity(e.sensitivity); err != nil {
		return nil, err
	}
	return e, nil
}

// Universe returns a copy of the configured entity list.
func (e *Engine) Universe() []string {
	return append([]string(nil), e.universe...)
}

// Sensitivity returns the sensitivity used when a cycle passes zero.
func (e *Engine) Sensitivity() float64 {
	return e.sensitivity
}

// ValidateSensitivity checks s lies within the slider bounds.
func ValidateSensitivity(s float64) error {
	if s < MinSensitivity || s > MaxSensitivity || math.IsNaN(s) {
		return fmt.Errorf("%w: %v not in [%.1f, %.1f]", ErrSensitivityOutOfRange, s, MinSensitivity, MaxSensitivity)
	}
	return nil
}

// GenerateOptions parameterizes a single cycle.
type GenerateOptions struct {
	// Sensitivity is the sampling spread. Zero selects the engine default.
	Sensitivity float64
}

// Generate runs one full cycle: for every entity, in universe order, it
// samples a score, classifies it, derives confidence and picks the
// justification. No state survives between cycles.
func (e *Engine) Generate(ctx context.Context, opts GenerateOptions) (*models.SignalTable, error) {
	sensitivity := opts.Sensitivity
	if sensitivity == 0 {
		sensitivity = e.sensitivity
	}
	if err := ValidateSensitivity(sensitivity); err != nil {
		return nil, err
	}

	table := &models.SignalTable{
		CycleID:     e.newID(),
		GeneratedAt: e.now(),
		Sensitivity: sensitivity,
		Rows:        make([]models.SignalRow, 0, len(e.universe)),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sampler := NewSampler(e.mean, sensitivity, e.rng)
	for _, name := range e.universe {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, e.row(sampler, name))
	}

	counts := table.Counts()
	log.Debug().
		Str("cycle_id", table.CycleID).
		Float64("sensitivity", sensitivity).
		Int("buy", counts[models.SignalBuy]).
		Int("hold", counts[models.SignalHold]).
		Int("sell", counts[models.SignalSell]).
		Msg("signals generated")

	return table, nil
}

func (e *Engine) row(sampler Sampler, name string) models.SignalRow {
	score := sampler.Sample()
	return models.SignalRow{
		Name:           name,
		SentimentScore: score,
		Signal:         Classify(score),
		Confidence:     Confidence(score, e.rng),
		Justification:  Justification(name, score),
	}
}
