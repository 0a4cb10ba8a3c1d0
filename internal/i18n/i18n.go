// Package i18n holds the translated strings shown by the feed host and CLI.
package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyPostCount     = "post_count"
	KeyEmptyFeed     = "empty_feed"
	KeyPluginSummary = "plugin_summary"
	KeyHelp          = "help"
	KeyThemeLabel    = "theme_label"
	KeyReloaded      = "reloaded"
)

var supported = []language.Tag{language.English, language.German, language.French}

type entry struct {
	key string
	msg catalog.Message
}

func entries(tag language.Tag) []entry {
	switch tag {
	case language.German:
		return []entry{
			{KeyPostCount, plural.Selectf(1, "%d", "=0", "keine Beiträge", "one", "1 Beitrag", "other", "%d Beiträge")},
			{KeyEmptyFeed, catalog.String("Noch nichts hier")},
			{KeyPluginSummary, catalog.String("%d von %d Plugins geladen")},
			{KeyHelp, catalog.String("t Thema • r neu laden • ↑/↓ scrollen • q beenden")},
			{KeyThemeLabel, catalog.String("Thema: %s")},
			{KeyReloaded, catalog.String("Themenpakete neu geladen")},
		}
	case language.French:
		return []entry{
			{KeyPostCount, plural.Selectf(1, "%d", "=0", "aucune publication", "one", "1 publication", "other", "%d publications")},
			{KeyEmptyFeed, catalog.String("Rien pour le moment")},
			{KeyPluginSummary, catalog.String("%d sur %d extensions chargées")},
			{KeyHelp, catalog.String("t thème • r recharger • ↑/↓ défiler • q quitter")},
			{KeyThemeLabel, catalog.String("thème : %s")},
			{KeyReloaded, catalog.String("packs de thèmes rechargés")},
		}
	default:
		return []entry{
			{KeyPostCount, plural.Selectf(1, "%d", "=0", "no posts", "one", "1 post", "other", "%d posts")},
			{KeyEmptyFeed, catalog.String("Nothing here yet")},
			{KeyPluginSummary, catalog.String("%d of %d plugins loaded")},
			{KeyHelp, catalog.String("t theme • r reload • ↑/↓ scroll • q quit")},
			{KeyThemeLabel, catalog.String("theme: %s")},
			{KeyReloaded, catalog.String("theme packs reloaded")},
		}
	}
}

// Printer formats message keys for one locale.
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a printer for locale, falling back to English for unknown or
// unsupported locales.
func New(locale string) *Printer {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, tag := range supported {
		for _, e := range entries(tag) {
			_ = builder.Set(tag, e.key, e.msg)
		}
	}

	tag := Match(locale)
	return &Printer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(builder))}
}

// Match picks the supported language closest to locale.
func Match(locale string) language.Tag {
	if strings.TrimSpace(locale) == "" {
		return language.English
	}
	requested, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, index, confidence := language.NewMatcher(supported).Match(requested)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// Language returns the matched language.
func (p *Printer) Language() language.Tag {
	return p.tag
}

// Sprintf formats the message stored under key.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

// Humanize turns an identifier such as "core.compose-hint" into "Core Compose Hint".
func Humanize(name string) string {
	spaced := strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '_':
			return ' '
		}
		return r
	}, name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(spaced), " "))
}
