package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// fragmentFromDict converts a Starlark style dict into a style fragment.
func fragmentFromDict(dict *starlark.Dict) (style.Fragment, error) {
	fragment := make(style.Fragment, dict.Len())
	for _, item := range dict.Items() {
		key, ok := item[0].(starlark.String)
		if !ok {
			return nil, fmt.Errorf("style keys must be strings, got %s", item[0].Type())
		}
		value, err := fromStarlarkValue(item[1])
		if err != nil {
			return nil, fmt.Errorf("style key %s: %w", key.GoString(), err)
		}
		fragment[key.GoString()] = value
	}
	return fragment, nil
}

func fromStarlarkValue(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer too large")
		}
		return int(i), nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type())
	}
}

// themeValue exposes the parts of a theme a script may branch on.
func themeValue(th theme.Theme) (starlark.Value, error) {
	spacing := starlark.NewDict(6)
	sizes := []struct {
		name string
		size theme.SpacingSize
	}{
		{"none", theme.SpacingNone},
		{"xs", theme.SpacingExtraSmall},
		{"sm", theme.SpacingSmall},
		{"md", theme.SpacingMedium},
		{"lg", theme.SpacingLarge},
		{"xl", theme.SpacingExtraLarge},
	}
	for _, s := range sizes {
		if err := spacing.SetKey(starlark.String(s.name), starlark.MakeInt(th.Space(s.size))); err != nil {
			return nil, err
		}
	}
	spacing.Freeze()

	dict := starlark.NewDict(3)
	entries := []struct {
		key   string
		value starlark.Value
	}{
		{"name", starlark.String(th.Name)},
		{"dark", starlark.Bool(th.Name == theme.NameDark)},
		{"spacing", spacing},
	}
	for _, e := range entries {
		if err := dict.SetKey(starlark.String(e.key), e.value); err != nil {
			return nil, err
		}
	}
	dict.Freeze()
	return dict, nil
}

func stringList(v starlark.Value) ([]string, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("expected a list of strings, got %s", v.Type())
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var out []string
	var x starlark.Value
	for iter.Next(&x) {
		s, ok := starlark.AsString(x)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %s", x.Type())
		}
		out = append(out, s)
	}
	return out, nil
}
