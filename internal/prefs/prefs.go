// Package prefs remembers per-user choices between launches, such as which camera
// to open and whether the camera preview is shown.
package prefs

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application directory.
const AppName = "flaphand"

const (
	prefsObject   = "prefs"
	prefsProperty = "user"
)

// Preferences are the user's saved choices. Command-line flags override them for
// a single launch and are written back only when they differ.
type Preferences struct {
	CameraDevice  int  `yaml:"cameraDevice"`
	ShowPreview   bool `yaml:"showPreview"`
	MirrorPreview bool `yaml:"mirrorPreview"`
	Fullscreen    bool `yaml:"fullscreen"`
	KeyboardOnly  bool `yaml:"keyboardOnly"`
	Muted         bool `yaml:"muted"`
}

// Defaults returns the preferences used before anything is saved.
func Defaults() Preferences {
	return Preferences{
		CameraDevice:  0,
		ShowPreview:   true,
		MirrorPreview: true,
	}
}

// Manager loads and saves Preferences. A nil gdata manager keeps everything in
// memory.
type Manager struct {
	data  *gdata.Manager
	prefs Preferences
}

// Open creates a Manager backed by gdata storage for appName. If storage is
// unavailable the Manager still works, in memory only.
func Open(appName string) *Manager {
	data, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("Preferences storage unavailable (%v), not saving preferences", err)
		data = nil
	}
	return NewManager(data)
}

// NewManager wraps an existing gdata manager, which may be nil, and loads the
// saved preferences.
func NewManager(data *gdata.Manager) *Manager {
	m := &Manager{data: data, prefs: Defaults()}
	if err := m.Load(); err != nil {
		log.Printf("Failed to load preferences: %v (using defaults)", err)
	}
	return m
}

// Load replaces the in-memory preferences with the saved ones. Missing or
// unreadable data leaves the defaults in place.
func (m *Manager) Load() error {
	if m.data == nil || !m.data.ObjectPropExists(prefsObject, prefsProperty) {
		m.prefs = Defaults()
		return nil
	}

	raw, err := m.data.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		m.prefs = Defaults()
		return fmt.Errorf("load preferences: %w", err)
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		m.prefs = Defaults()
		return fmt.Errorf("decode preferences: %w", err)
	}

	m.prefs = loaded
	return nil
}

// Save writes the current preferences. It is a no-op without storage.
func (m *Manager) Save() error {
	if m.data == nil {
		return nil
	}

	raw, err := yaml.Marshal(m.prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := m.data.SaveObjectProp(prefsObject, prefsProperty, raw); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Get returns a copy of the current preferences.
func (m *Manager) Get() Preferences {
	return m.prefs
}

// Update applies fn to the preferences and saves them if anything changed.
func (m *Manager) Update(fn func(*Preferences)) error {
	next := m.prefs
	fn(&next)
	if next == m.prefs {
		return nil
	}
	m.prefs = next
	return m.Save()
}

// Persistent reports whether preferences survive a restart.
func (m *Manager) Persistent() bool {
	return m.data != nil
}
