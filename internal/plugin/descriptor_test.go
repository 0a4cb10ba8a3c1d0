package plugin

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feedkit/feedkit/internal/extension"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

func validDescriptor() Descriptor {
	return Descriptor{
		Name:    "trending",
		Version: "1.0.0",
		Extensions: []ExtensionIntent{{
			Point:  "home.content",
			Render: func(extension.RenderContext) string { return "trending" },
		}},
		Overrides: []OverrideIntent{{Component: "PostCard", Slot: "container"}},
	}
}

func TestDescriptorValidate(t *testing.T) {
	require.NoError(t, validDescriptor().Validate())

	tests := []struct {
		name   string
		mutate func(*Descriptor)
		field  string
	}{
		{"missing name", func(d *Descriptor) { d.Name = "" }, "plugin.name"},
		{"bad name", func(d *Descriptor) { d.Name = "Trending Now" }, "plugin.name"},
		{"bad version", func(d *Descriptor) { d.Version = "v1" }, "plugin.version"},
		{"bad point", func(d *Descriptor) { d.Extensions[0].Point = "home content" }, "plugin.extensions[0].point"},
		{"missing render", func(d *Descriptor) { d.Extensions[0].Render = nil }, "plugin.extensions[0].render"},
		{"bad slot", func(d *Descriptor) { d.Overrides[0].Slot = "" }, "plugin.overrides[0].slot"},
		{"self dependency", func(d *Descriptor) { d.Requires = []Dependency{{Name: "trending"}} }, "plugin.requires"},
		{"duplicate dependency", func(d *Descriptor) {
			d.Requires = []Dependency{{Name: "core.header"}, {Name: "core.header"}}
		}, "plugin.requires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDescriptor()
			d.Extensions = append([]ExtensionIntent(nil), d.Extensions...)
			d.Overrides = append([]OverrideIntent(nil), d.Overrides...)
			tt.mutate(&d)

			err := d.Validate()
			var ve *feederrors.ValidationError
			require.True(t, stderrors.As(err, &ve), "expected validation error, got %v", err)
			require.Equal(t, tt.field, ve.Field)
		})
	}
}
