// Package feed produces the ordered outcome sequence the engine consumes.
// Sources validate values at ingestion; the engine assumes clean input.
package feed

import "CrashLadder/internal/model"

// Source is a finite, strictly ordered stream of outcomes. Next returns
// io.EOF when the stream is exhausted.
type Source interface {
	Next() (model.Outcome, error)
	Name() string
}
