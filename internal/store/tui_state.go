package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state for restoring the last screen on relaunch.
//
// The file lives inside the data dir so state is naturally scoped per workspace.
// It is best effort: callers tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// FocusedEntryID is the entry under the cursor when the TUI last quit.
	FocusedEntryID string `json:"focusedEntryId,omitempty"`
}

func tuiStatePath(dir string) string {
	return filepath.Join(dir, tuiStateFileName)
}

func LoadTUIState(dir string) (*TUIState, error) {
	if strings.TrimSpace(dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(tuiStatePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveTUIState(dir string, st *TUIState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, tuiStateFileName+".*.tmp", tuiStatePath(dir), b, 0o644)
}
