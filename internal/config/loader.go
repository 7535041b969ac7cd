package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	strerrors "github.com/alexisbeaulieu97/strato/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Load builds the configuration: YAML file (optional), then STRATO_*
// environment overrides, then defaults and validation. A missing file is
// not an error; env vars alone can carry a full configuration.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env-only configuration
		case err != nil:
			return nil, strerrors.NewParseError(path, 0, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, strerrors.NewParseError(path, extractLine(err), err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, strerrors.NewValidationError("environment", err.Error(), err)
	}

	cfg.applyDefaults()

	if err := validatorInstance().Struct(&cfg); err != nil {
		return nil, convertValidationError(err)
	}

	return &cfg, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

func convertValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		field := strings.TrimPrefix(first.Namespace(), "Config.")
		return strerrors.NewValidationError(field, fmt.Sprintf("failed %q constraint", first.Tag()), err)
	}
	return strerrors.NewValidationError("", err.Error(), err)
}
