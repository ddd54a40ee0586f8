package recorder

import "CrashLadder/internal/model"

// Recorder persists the engine's event stream. The stream is the output
// contract: any reporting layer can reconstruct full session statistics
// from it without reading engine internals.
type Recorder interface {
	RecordOpen(evt *model.CycleOpened) error
	RecordClose(evt *model.CycleClosed) error
	RecordBust(evt *model.BustOccurred) error
	RecordWithdrawal(evt *model.WithdrawalApplied) error
	Close() error
}
