package themepack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/plugin"
	"github.com/feedkit/feedkit/internal/style"
)

func newApplyFixture(t *testing.T, descriptors ...plugin.Descriptor) (*plugin.Loader, *style.Registry) {
	t.Helper()
	overrides := style.NewRegistry()
	loader := plugin.NewLoader(extension.NewRegistry(), overrides)
	_ = loader.Bootstrap(descriptors)
	return loader, overrides
}

func oceanPack(overrides ...Override) *Pack {
	return &Pack{Name: "ocean", Version: "1.0.0", Overrides: overrides}
}

func TestApplierReplacesTrackedPackOverrides(t *testing.T) {
	first := oceanPack(
		Override{Component: "PostCard", Slot: "container", Style: map[string]any{"padding_x": int64(4)}},
		Override{Component: "PostCard", Slot: "title", Style: map[string]any{"bold": true}},
	)
	loader, registry := newApplyFixture(t, first.Descriptor())
	applier := NewApplier(loader)
	applier.Track([]*Pack{first})

	second := oceanPack(Override{Component: "PostCard", Slot: "container", Style: map[string]any{"padding_x": 1}})
	result, err := applier.Apply([]*Pack{second})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Set)
	assert.Equal(t, 1, result.Cleared)
	assert.Equal(t, []*Pack{second}, result.Applied)

	fragment, ok := registry.Override("PostCard", "container")
	require.True(t, ok)
	assert.Equal(t, 1, fragment["padding_x"])
	_, ok = registry.Override("PostCard", "title")
	assert.False(t, ok)
}

func TestApplierRestoresEarlierOwnerOfDroppedKey(t *testing.T) {
	base := plugin.Descriptor{
		Name:      "base",
		Version:   "1.0.0",
		Overrides: []plugin.OverrideIntent{{Component: "PostCard", Slot: "container", Style: style.Fragment{"padding_x": 2}}},
	}
	pack := oceanPack(Override{Component: "PostCard", Slot: "container", Style: map[string]any{"padding_x": 4}})
	loader, registry := newApplyFixture(t, base, pack.Descriptor())
	applier := NewApplier(loader)
	applier.Track([]*Pack{pack})

	_, err := applier.Apply([]*Pack{oceanPack()})
	require.NoError(t, err)

	fragment, ok := registry.Override("PostCard", "container")
	require.True(t, ok)
	assert.Equal(t, 2, fragment["padding_x"])
}

func TestApplierClearsRemovedPack(t *testing.T) {
	pack := oceanPack(Override{Component: "Banner", Slot: "text", Style: map[string]any{"bold": true}})
	loader, registry := newApplyFixture(t, pack.Descriptor())
	applier := NewApplier(loader)
	applier.Track([]*Pack{pack})

	result, err := applier.Apply(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Cleared)
	assert.Zero(t, registry.Len())
}

func TestApplierSkipsPacksThatAreNotLoaded(t *testing.T) {
	needy := &Pack{
		Name:      "needy",
		Version:   "1.0.0",
		Requires:  []string{"missing.dep"},
		Overrides: []Override{{Component: "PostCard", Slot: "header", Style: map[string]any{"bold": true}}},
	}
	loader, registry := newApplyFixture(t, needy.Descriptor())
	applier := NewApplier(loader)
	applier.Track([]*Pack{needy})

	late := &Pack{
		Name:      "late",
		Version:   "1.0.0",
		Overrides: []Override{{Component: "PostCard", Slot: "title", Style: map[string]any{"bold": true}}},
	}
	result, err := applier.Apply([]*Pack{needy, late})
	require.NoError(t, err)
	assert.Equal(t, []string{"needy", "late"}, result.Skipped)
	assert.Empty(t, result.Applied)
	assert.Zero(t, registry.Len())
}
