package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

func TestValidatorIsSingleton(t *testing.T) {
	require.Same(t, Validator(), Validator())
}

func TestCustomTags(t *testing.T) {
	type sample struct {
		Version   string `validate:"semver"`
		Plugin    string `validate:"plugin_name"`
		Component string `validate:"component_name"`
		Point     string `validate:"point_name"`
		Theme     string `validate:"theme_name"`
	}

	valid := sample{Version: "1.2.3", Plugin: "core.header", Component: "PostCard", Point: "home.content", Theme: "dark"}
	require.NoError(t, Struct("", valid))

	tests := []struct {
		name   string
		mutate func(*sample)
		field  string
	}{
		{"bad semver", func(s *sample) { s.Version = "1.2" }, "version"},
		{"upper-case plugin", func(s *sample) { s.Plugin = "Core" }, "plugin"},
		{"component with space", func(s *sample) { s.Component = "Post Card" }, "component"},
		{"point starting with digit", func(s *sample) { s.Point = "1home" }, "point"},
		{"unknown theme", func(s *sample) { s.Theme = "neon" }, "theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := Struct("pack", s)
			require.Error(t, err)

			var ve *feederrors.ValidationError
			require.True(t, stderrors.As(err, &ve))
			require.Equal(t, "pack."+tt.field, ve.Field)
		})
	}
}

func TestValidGitURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/user/themes.git", true},
		{"http://", false},
		{"ftp://example.com/repo.git", false},
		{"git@github.com:user/themes.git", true},
		{"git@github.com/user/themes.git", false},
		{"/tmp/themes.git", true},
		{"/tmp/../etc", false},
		{"./themes", true},
		{"themes", false},
		{" ", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			require.Equal(t, tt.want, ValidGitURL(tt.url))
		})
	}
}
