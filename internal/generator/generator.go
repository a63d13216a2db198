// Package generator builds synthetic game sessions.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/huepattern/internal/model"
)

// Options shapes the generated sessions.
type Options struct {
	Sessions int
	MaxLevel int
	Models   []model.ColorModel
	Side     float64
	// Delta is the distance between the base and changed colour.
	Delta float64
	// MistakeRate is the probability that a round is answered incorrectly.
	MistakeRate float64
	// VisualRate is the probability that a session uses the visual condition.
	VisualRate float64
	// Clusters, when positive, places mistakes around that many random centres
	// instead of uniformly.
	Clusters int
	// Spread is the standard deviation of a cluster.
	Spread float64
}

// DefaultOptions returns options for a uniform control export.
func DefaultOptions() Options {
	return Options{
		Sessions:    200,
		MaxLevel:    12,
		Models:      append([]model.ColorModel(nil), model.DefaultColorModels...),
		Side:        255,
		Delta:       8,
		MistakeRate: 0.3,
		VisualRate:  0.2,
		Spread:      20,
	}
}

// Generator produces randomized sessions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate builds opts.Sessions sessions. Every session plays one round per
// level up to its final level; rounds pick a model uniformly.
func (g *Generator) Generate(opts Options) []model.Session {
	opts = withDefaults(opts)
	centres := make([]model.Point, opts.Clusters)
	for i := range centres {
		centres[i] = g.uniform(opts.Side - opts.Delta)
	}
	sessions := make([]model.Session, 0, opts.Sessions)
	for i := 0; i < opts.Sessions; i++ {
		final := 1 + g.rnd.Intn(opts.MaxLevel)
		s := model.Session{
			ID:              g.sessionID(),
			FinalLevel:      final,
			VisualCondition: g.rnd.Float64() < opts.VisualRate,
			Rounds:          make([]model.Round, 0, final),
		}
		for level := 1; level <= final; level++ {
			s.Rounds = append(s.Rounds, g.round(level, opts, centres))
		}
		sessions = append(sessions, s)
	}
	return sessions
}

func (g *Generator) round(level int, opts Options, centres []model.Point) model.Round {
	correct := g.rnd.Float64() >= opts.MistakeRate
	limit := opts.Side - opts.Delta
	base := g.uniform(limit)
	if !correct && len(centres) > 0 {
		base = g.near(centres[g.rnd.Intn(len(centres))], opts.Spread, limit)
	}
	changed := [3]float64{base.X, base.Y, base.Z}
	changed[g.rnd.Intn(3)] += opts.Delta
	return model.Round{
		Level:   level,
		Base:    [3]float64{base.X, base.Y, base.Z},
		Changed: changed,
		Model:   opts.Models[g.rnd.Intn(len(opts.Models))],
		Correct: correct,
	}
}

func (g *Generator) uniform(limit float64) model.Point {
	return model.Point{
		X: g.rnd.Float64() * limit,
		Y: g.rnd.Float64() * limit,
		Z: g.rnd.Float64() * limit,
	}
}

func (g *Generator) near(c model.Point, spread, limit float64) model.Point {
	return model.Point{
		X: clamp(c.X+g.rnd.NormFloat64()*spread, limit),
		Y: clamp(c.Y+g.rnd.NormFloat64()*spread, limit),
		Z: clamp(c.Z+g.rnd.NormFloat64()*spread, limit),
	}
}

func (g *Generator) sessionID() string {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.MaxLevel <= 0 {
		opts.MaxLevel = def.MaxLevel
	}
	if len(opts.Models) == 0 {
		opts.Models = def.Models
	}
	if opts.Side <= 0 {
		opts.Side = def.Side
	}
	if opts.Delta < 0 || opts.Delta >= opts.Side {
		opts.Delta = def.Delta
	}
	if opts.Spread <= 0 {
		opts.Spread = def.Spread
	}
	return opts
}

func clamp(v, limit float64) float64 {
	return math.Max(0, math.Min(limit, v))
}
