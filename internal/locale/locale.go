// Package locale validates --locale values and loads the message catalog
// used to translate diagnostics.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"tsc/internal/diag"
)

//go:embed catalogs/*.toml
var catalogFS embed.FS

// ErrMessagesSectionMissing is returned for a catalog without [messages].
var ErrMessagesSectionMissing = errors.New("missing [messages] section")

var localeForm = regexp.MustCompile(`^(?i)([a-z]+)(?:[_-]([a-z]+))?$`)

// Catalog translates diagnostic messages by code.
type Catalog struct {
	Tag      language.Tag
	messages map[diag.Code]string
}

// Translate implements diag.Translator. A nil catalog translates nothing.
func (c *Catalog) Translate(code diag.Code) (string, bool) {
	if c == nil {
		return "", false
	}
	s, ok := c.messages[code]
	return s, ok
}

// Len returns the number of translated messages.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

// Supported lists the locales with an embedded catalog plus English.
func Supported() []language.Tag {
	tags := []language.Tag{language.English}
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		return tags
	}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".toml")
		if tag, err := language.Parse(name); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Validate checks that value has the form <language> or
// <language>-<territory> and loads its catalog. English needs no catalog and
// yields a nil Catalog. Failures are returned as diagnostics.
func Validate(value string) (*Catalog, []*diag.Diagnostic) {
	m := localeForm.FindStringSubmatch(value)
	if m == nil {
		return nil, []*diag.Diagnostic{diag.NewGlobal(diag.LocaleMustBeOfForm, "en", "ja-jp")}
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return nil, []*diag.Diagnostic{diag.NewGlobal(diag.UnsupportedLocale, value)}
	}

	supported := Supported()
	matcher := language.NewMatcher(supported)
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return nil, []*diag.Diagnostic{diag.NewGlobal(diag.UnsupportedLocale, value)}
	}
	best := supported[index]
	if best == language.English {
		return nil, nil
	}
	cat, err := Load(best)
	if err != nil {
		return nil, []*diag.Diagnostic{diag.NewGlobal(diag.UnsupportedLocale, value)}
	}
	return cat, nil
}

type catalogFile struct {
	Messages map[string]string `toml:"messages"`
}

// Load decodes the embedded catalog for tag.
func Load(tag language.Tag) (*Catalog, error) {
	name := path.Join("catalogs", tag.String()+".toml")
	data, err := catalogFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("locale %s: %w", tag, err)
	}
	var file catalogFile
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if !meta.IsDefined("messages") {
		return nil, fmt.Errorf("%s: %w", name, ErrMessagesSectionMissing)
	}
	cat := &Catalog{Tag: tag, messages: make(map[diag.Code]string, len(file.Messages))}
	for key, text := range file.Messages {
		n, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid message code %q", name, key)
		}
		cat.messages[diag.Code(n)] = text
	}
	return cat, nil
}
