package configs

import (
	"os"

	"github.com/aarynsmith/exercisetracker/internal/infrastructure/env"
)

var candidates = []string{
	"./config.yaml",
	"./config.yml",
	"./tmp/config.yaml",
	"../../config.yaml",
	"/etc/exercisetracker/config.yaml",
	"/app/config.yaml",
}

// DetermineConfigPath resolves the config file from the --config flag value,
// then EXTRACKER_CONFIG, then the well-known locations. An empty result
// means the service runs on defaults and environment overrides alone.
func DetermineConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if p := env.GetString("EXTRACKER_CONFIG", ""); p != "" {
		return p
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
