package extension

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func text(s string) RenderFunc {
	return func(RenderContext) string { return s }
}

func names(contributions []Contribution) []string {
	out := make([]string, 0, len(contributions))
	for _, c := range contributions {
		out = append(out, c.Name)
	}
	return out
}

func TestContributionsForUnknownPointIsEmpty(t *testing.T) {
	reg := NewRegistry()

	got := reg.Contributions("nowhere")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestDefaultPriorityIsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register("home.content", Contribution{Name: "A", Render: text("A")})
	reg.Register("home.content", Contribution{Name: "B", Render: text("B")})

	got := reg.Contributions("home.content")
	require.Equal(t, []string{"A", "B"}, names(got))
	require.Equal(t, 0, got[0].Priority)
	require.Equal(t, 1, got[1].Priority)
}

func TestExplicitPrioritiesSortStably(t *testing.T) {
	reg := NewRegistry()
	reg.Register("home.header", Contribution{Name: "ten"}, WithPriority(10))
	reg.Register("home.header", Contribution{Name: "five-first"}, WithPriority(5))
	reg.Register("home.header", Contribution{Name: "five-second"}, WithPriority(5))

	require.Equal(t, []string{"five-first", "five-second", "ten"}, names(reg.Contributions("home.header")))
}

func TestMixedDefaultAndExplicitPriorities(t *testing.T) {
	reg := NewRegistry()
	reg.Register("p", Contribution{Name: "default-0"})
	reg.Register("p", Contribution{Name: "explicit-neg"}, WithPriority(-1))
	reg.Register("p", Contribution{Name: "default-2"})
	reg.Register("p", Contribution{Name: "explicit-0"}, WithPriority(0))

	require.Equal(t, []string{"explicit-neg", "default-0", "explicit-0", "default-2"}, names(reg.Contributions("p")))
}

func TestRegisterAssignsUniqueIDs(t *testing.T) {
	reg := NewRegistry()
	a := reg.Register("p", Contribution{Name: "A"})
	b := reg.Register("p", Contribution{Name: "B"})

	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
}

func TestContributionsReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register("p", Contribution{Name: "A"})

	got := reg.Contributions("p")
	got[0].Name = "mutated"

	require.Equal(t, []string{"A"}, names(reg.Contributions("p")))
}

func TestPointsLenAndClearAll(t *testing.T) {
	reg := NewRegistry()
	reg.Register("post.footer", Contribution{Name: "x"})
	reg.Register("home.header", Contribution{Name: "y"})
	reg.Register("home.header", Contribution{Name: "z"})

	require.Equal(t, []PointName{"home.header", "post.footer"}, reg.Points())
	require.Equal(t, 3, reg.Len())

	reg.ClearAll()
	require.Empty(t, reg.Points())
	require.Zero(t, reg.Len())
}

func TestRegistryNotifiesSubscribers(t *testing.T) {
	reg := NewRegistry()
	var seen []uint64
	reg.Subscribe(func() { seen = append(seen, reg.Version()) })

	reg.Register("p", Contribution{Name: "A"})
	reg.Register("p", Contribution{Name: "B"})

	require.Equal(t, []uint64{1, 2}, seen)
}

func TestParsePointName(t *testing.T) {
	name, err := ParsePointName("home.content")
	require.NoError(t, err)
	require.Equal(t, PointName("home.content"), name)

	_, err = ParsePointName("home content")
	require.Error(t, err)
}
