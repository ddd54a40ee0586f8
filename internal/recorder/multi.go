package recorder

import "CrashLadder/internal/model"

// MultiRecorder fans every event out to several recorders, returning the
// first error encountered.
type MultiRecorder struct {
	recs []Recorder
}

func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{recs: recs}
}

func (m *MultiRecorder) RecordOpen(evt *model.CycleOpened) error {
	for _, r := range m.recs {
		if err := r.RecordOpen(evt); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) RecordClose(evt *model.CycleClosed) error {
	for _, r := range m.recs {
		if err := r.RecordClose(evt); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) RecordBust(evt *model.BustOccurred) error {
	for _, r := range m.recs {
		if err := r.RecordBust(evt); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) RecordWithdrawal(evt *model.WithdrawalApplied) error {
	for _, r := range m.recs {
		if err := r.RecordWithdrawal(evt); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) Close() error {
	var first error
	for _, r := range m.recs {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
