package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/ncruces/zenity"
)

// Prefs holds the persisted user preferences. There is exactly one:
// whether glitch ripple rendering is disabled.
type Prefs struct {
	RippleOff bool `json:"ripple_off"`
}

// prefsPath returns the preference file location under the user config
// directory, creating parent directories as needed.
func prefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "lamplight")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "prefs.json"), nil
}

// LoadPrefs reads the stored preferences. On first run (no file yet) it
// asks the user via a native dialog and persists the answer; if the
// dialog cannot be shown the ripple effect defaults to enabled.
func LoadPrefs() Prefs {
	path, err := prefsPath()
	if err != nil {
		return Prefs{}
	}
	if data, err := os.ReadFile(path); err == nil {
		var p Prefs
		if json.Unmarshal(data, &p) == nil {
			return p
		}
	}

	p := Prefs{RippleOff: !askRipple()}
	_ = SavePrefs(path, p)
	return p
}

// SavePrefs writes the preferences to path.
func SavePrefs(path string, p Prefs) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadPrefs loads preferences from an explicit path without prompting.
func ReadPrefs(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prefs{}, err
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

func askRipple() bool {
	err := zenity.Question("Enable glitch ripple effects?",
		zenity.Title("Lamplight"),
		zenity.OKLabel("Enable"),
		zenity.CancelLabel("Disable"))
	if err == nil {
		return true
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return false
	}
	// Dialog unavailable (headless, missing backend): keep the default.
	return true
}
