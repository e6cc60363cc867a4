package tui

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"planner-cli/internal/fsutil"
)

const uiStateFileName = "tui_state.json"

// uiState is restored on relaunch. It is best effort: a missing or corrupt
// file yields the zero state.
type uiState struct {
	Version int `json:"version"`

	// CursorHabit is the name of the selected habit.
	CursorHabit string `json:"cursorHabit,omitempty"`
	ShowNote    bool   `json:"showNote,omitempty"`
}

func uiStatePath(dir string) string {
	if strings.TrimSpace(dir) == "" {
		return ""
	}
	return filepath.Join(dir, uiStateFileName)
}

func loadUIState(path string) uiState {
	st := uiState{Version: 1}
	if path == "" {
		return st
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return uiState{Version: 1}
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return st
}

func saveUIState(path string, st uiState) error {
	if path == "" {
		return errors.New("no state path")
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.AtomicWriteFile(path, b, 0o644)
}
