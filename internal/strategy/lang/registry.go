package lang

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/bethropolis/veil/internal/logger"
)

var (
	// Global language registry
	registry struct {
		sync.RWMutex
		languages     []*Language
		extToLanguage map[string]*Language
	}

	initOnce sync.Once
)

func initialize() {
	initOnce.Do(func() {
		registry.extToLanguage = make(map[string]*Language)
	})
}

// Register adds a language to the registry
func Register(lang *Language) {
	initialize()

	registry.Lock()
	defer registry.Unlock()

	registry.languages = append(registry.languages, lang)
	for _, ext := range lang.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := registry.extToLanguage[lowerExt]; ok {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, lang.Name)
		}
		registry.extToLanguage[lowerExt] = lang
	}
	logger.Debugf("Registered language: %s with extensions: %v", lang.Name, lang.Extensions)
}

// GetForFile returns the language for a given file path, or nil
func GetForFile(filePath string) *Language {
	initialize()

	registry.RLock()
	defer registry.RUnlock()
	return registry.extToLanguage[strings.ToLower(filepath.Ext(filePath))]
}

// GetAll returns all registered languages
func GetAll() []*Language {
	initialize()

	registry.RLock()
	defer registry.RUnlock()

	result := make([]*Language, len(registry.languages))
	copy(result, registry.languages)
	return result
}
