package ledger

import (
	"encoding/json"
	"os"
	"time"

	"CrashLadder/internal/model"
)

// LoadState reads the ledger state from a JSON file. Returns a zero state
// when no path is configured or the file doesn't exist yet.
func LoadState(filePath string) (*model.LedgerState, error) {
	if filePath == "" {
		return &model.LedgerState{}, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.LedgerState{}, nil
		}
		return nil, err
	}
	var state model.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the ledger state to a JSON file. A no-op without a path.
func SaveState(filePath string, state *model.LedgerState) error {
	if filePath == "" {
		return nil
	}
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
