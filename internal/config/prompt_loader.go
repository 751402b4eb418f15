package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// defaultPromptDir is the subdirectory within the user's home directory.
const defaultPromptDir = ".config/clipnote/prompts"

// LoadPromptContent resolves the path for a prompt template and reads its content.
// If configuredPath is absolute, it's used directly.
// If configuredPath is relative or empty, it's treated as a filename within ~/.config/clipnote/prompts/.
func LoadPromptContent(configuredPath, defaultFilename string) (string, error) {
	finalPath := configuredPath

	if !filepath.IsAbs(configuredPath) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}

		filename := configuredPath
		if filename == "" {
			filename = defaultFilename
		}
		finalPath = filepath.Join(homeDir, defaultPromptDir, filename)
	}

	promptBytes, err := os.ReadFile(finalPath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file '%s': %w", finalPath, err)
	}
	return string(promptBytes), nil
}

// LoadPromptOrDefault returns the prompt file content, or builtin when no
// prompt file exists. Other read errors are logged and also fall back.
func LoadPromptOrDefault(configuredPath, defaultFilename, builtin string) string {
	content, err := LoadPromptContent(configuredPath, defaultFilename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Using built-in prompt: %v", err)
		}
		return builtin
	}
	if content == "" {
		return builtin
	}
	return content
}
