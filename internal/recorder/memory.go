package recorder

import (
	"sync"

	"CrashLadder/internal/model"
)

// MemoryRecorder keeps the event stream in order in memory. Used by tests
// and by the report aggregator's inputs.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []any
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

// Events returns the recorded stream in arrival order.
func (m *MemoryRecorder) Events() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MemoryRecorder) record(evt any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *MemoryRecorder) RecordOpen(evt *model.CycleOpened) error             { return m.record(*evt) }
func (m *MemoryRecorder) RecordClose(evt *model.CycleClosed) error            { return m.record(*evt) }
func (m *MemoryRecorder) RecordBust(evt *model.BustOccurred) error            { return m.record(*evt) }
func (m *MemoryRecorder) RecordWithdrawal(evt *model.WithdrawalApplied) error { return m.record(*evt) }
func (m *MemoryRecorder) Close() error                                        { return nil }
