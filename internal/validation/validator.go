// Package validation holds the shared go-playground validator instance and the
// custom tags used by configuration, theme packs and plugin descriptors.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern     = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	pluginNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_.-]{0,63}$`)
	sshGitPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+:[a-zA-Z0-9._/~-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("plugin_name", func(fl validator.FieldLevel) bool {
			return pluginNamePattern.MatchString(fl.Field().String())
		})

		// Component, slot and point names share one grammar.
		for _, tag := range []string{"component_name", "slot_name", "point_name"} {
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return style.ValidName(fl.Field().String())
			})
		}

		_ = v.RegisterValidation("theme_name", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			_, err := theme.ByName(value)
			return err == nil
		})

		_ = v.RegisterValidation("git_url", func(fl validator.FieldLevel) bool {
			return ValidGitURL(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	return validatorInstance()
}

// ValidPluginName reports whether name is acceptable as a plugin name.
func ValidPluginName(name string) bool {
	return pluginNamePattern.MatchString(name)
}

// ValidGitURL accepts http(s) URLs with a host, scp-style SSH URLs and
// absolute or explicitly relative local paths.
func ValidGitURL(raw string) bool {
	if strings.TrimSpace(raw) == "" || strings.Contains(raw, "\x00") {
		return false
	}

	if parsed, err := url.Parse(raw); err == nil {
		scheme := strings.ToLower(parsed.Scheme)
		if (scheme == "http" || scheme == "https") && parsed.Host != "" {
			return true
		}
	}

	if sshGitPattern.MatchString(raw) {
		return true
	}

	if strings.HasPrefix(raw, "/") {
		return !strings.Contains(raw, "/../") && !strings.HasSuffix(raw, "/..")
	}
	return strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../")
}

// Struct validates v and normalises the first failure into a
// *errors.ValidationError whose field uses the lower-cased struct namespace
// prefixed by scope.
func Struct(scope string, v any) error {
	if err := validatorInstance().Struct(v); err != nil {
		return convert(scope, err)
	}
	return nil
}

func convert(scope string, err error) error {
	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		field := fieldName(scope, fe)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag())
		return feederrors.NewValidationError(field, msg, err)
	}
	return feederrors.NewValidationError(scope, err.Error(), err)
}

func fieldName(scope string, fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	// Drop the root type name.
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	field := strings.Join(parts, ".")
	if scope == "" {
		return field
	}
	return scope + "." + field
}
