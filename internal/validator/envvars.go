package validator

import (
	"encoding/json"
	"regexp"
	"slices"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// Limits on environment variables passed to an MCP runtime.
const (
	maxEnvVarNameLength  = 256
	maxEnvVarValueLength = 2048
	maxEnvVarsTotalBytes = 4096
)

var envVarNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateEnvironmentVariables checks each runtime environment variable and
// the serialized size of the whole set. Names are checked in sorted order so
// the first reported error is stable.
func validateEnvironmentVariables(vars map[string]any) error {
	if len(vars) == 0 {
		return nil
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if len(name) > maxEnvVarNameLength {
			return usecase.NewValidationError(
				"Environment variable name '%s' exceeds maximum length of %d characters.", name, maxEnvVarNameLength)
		}
		if !envVarNameRE.MatchString(name) {
			return usecase.NewValidationError(
				"Invalid environment variable name '%s'. Names must start with a letter or underscore "+
					"and contain only letters, numbers, and underscores.", name)
		}
		value, ok := vars[name].(string)
		if !ok {
			return usecase.NewValidationError("Environment variable '%s' value must be a string.", name)
		}
		if len(value) > maxEnvVarValueLength {
			return usecase.NewValidationError(
				"Environment variable '%s' value exceeds maximum length of %d characters.", name, maxEnvVarValueLength)
		}
	}

	data, err := json.Marshal(vars)
	if err != nil {
		return usecase.NewValidationError("Environment variables could not be serialized: %v", err)
	}
	if len(data) > maxEnvVarsTotalBytes {
		return usecase.NewValidationError(
			"Total size of environment variables (%d bytes) exceeds the maximum of %d bytes.", len(data), maxEnvVarsTotalBytes)
	}
	return nil
}
