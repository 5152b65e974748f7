package display

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/muurk/weathersync/internal/weather"
)

//go:embed icons/*.txt
var iconFiles embed.FS

// IconSet loads icon art and tracks how many loaded icons are still held.
type IconSet struct {
	mu    sync.Mutex
	files fs.FS
	live  int
}

// NewIconSet returns an IconSet backed by the embedded art.
func NewIconSet() *IconSet {
	return &IconSet{files: iconFiles}
}

// NewIconSetFS returns an IconSet reading icons/<category>.txt from files.
func NewIconSetFS(files fs.FS) *IconSet {
	return &IconSet{files: files}
}

// Icon is a loaded icon resource. Release it when it is replaced.
type Icon struct {
	Category weather.IconCategory
	Art      string

	set      *IconSet
	released bool
}

// Load reads the art for a category and counts it as live.
func (s *IconSet) Load(category weather.IconCategory) (*Icon, error) {
	name := fmt.Sprintf("icons/%s.txt", category)
	data, err := fs.ReadFile(s.files, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load icon %s: %w", category, err)
	}

	s.mu.Lock()
	s.live++
	s.mu.Unlock()

	return &Icon{
		Category: category,
		Art:      strings.TrimRight(string(data), "\n"),
		set:      s,
	}, nil
}

// Live returns the number of loaded icons not yet released.
func (s *IconSet) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Release returns the icon to its set. Calling it more than once is a no-op.
func (i *Icon) Release() {
	if i == nil || i.released {
		return
	}
	i.released = true

	i.set.mu.Lock()
	i.set.live--
	i.set.mu.Unlock()
}

// Released reports whether Release was called.
func (i *Icon) Released() bool {
	return i.released
}
