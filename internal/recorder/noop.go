package recorder

import "CrashLadder/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordOpen(_ *model.CycleOpened) error             { return nil }
func (n *NoopRecorder) RecordClose(_ *model.CycleClosed) error            { return nil }
func (n *NoopRecorder) RecordBust(_ *model.BustOccurred) error            { return nil }
func (n *NoopRecorder) RecordWithdrawal(_ *model.WithdrawalApplied) error { return nil }
func (n *NoopRecorder) Close() error                                      { return nil }
