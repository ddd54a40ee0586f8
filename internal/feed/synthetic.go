package feed

import (
	"io"
	"math"
	"math/rand"
	"time"

	"CrashLadder/internal/model"
)

// defaultSpacing is the nominal gap between rounds used for synthetic
// timestamps when no pacing interval is configured.
const defaultSpacing = 30 * time.Second

// SyntheticSource generates crash-style multipliers from a seeded RNG:
// (1-edge)/(1-r) floored to two decimals, never below 1.00. The same seed
// always produces the same sequence, timestamps included.
type SyntheticSource struct {
	rng     *rand.Rand
	edge    float64
	count   int64
	start   time.Time
	spacing time.Duration
	seq     int64
}

func NewSyntheticSource(seed int64, count int64, houseEdge float64, spacing time.Duration) *SyntheticSource {
	if spacing <= 0 {
		spacing = defaultSpacing
	}
	return &SyntheticSource{
		rng:     rand.New(rand.NewSource(seed)),
		edge:    houseEdge,
		count:   count,
		start:   time.Unix(1700000000, 0).UTC(),
		spacing: spacing,
	}
}

func (s *SyntheticSource) Name() string { return "synthetic" }

func (s *SyntheticSource) Next() (model.Outcome, error) {
	if s.seq >= s.count {
		return model.Outcome{}, io.EOF
	}
	r := s.rng.Float64()
	v := math.Floor((1-s.edge)/(1-r)*100) / 100
	if v < 1.0 {
		v = 1.0
	}
	s.seq++
	return model.Outcome{
		Seq:   s.seq,
		At:    s.start.Add(time.Duration(s.seq-1) * s.spacing),
		Value: v,
	}, nil
}
