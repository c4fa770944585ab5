package logger

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LevelConfig is the comma-separated "name=level,name2=level2" format
// accepted by the LOG_LEVELS environment variable.
type LevelConfig string

// Registry resolves a per-subsystem log level, defaulting to info.
type Registry struct {
	mu     sync.RWMutex
	levels map[string]logrus.Level
}

// NewRegistry parses a LevelConfig into a Registry.
func NewRegistry(config LevelConfig) *Registry {
	r := &Registry{levels: make(map[string]logrus.Level)}
	for _, pair := range strings.Split(string(config), ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		lvl, err := logrus.ParseLevel(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		r.levels[name] = lvl
	}
	return r
}

// LevelFor returns the configured level for subsystem, or info if unset.
func (r *Registry) LevelFor(subsystem string) logrus.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if lvl, ok := r.levels[subsystem]; ok {
		return lvl
	}
	return logrus.InfoLevel
}

// ListLevels returns the names of every logrus level, for help text.
func ListLevels() []string {
	names := make([]string, 0, len(logrus.AllLevels))
	for _, lvl := range logrus.AllLevels {
		names = append(names, lvl.String())
	}
	return names
}
