// Package docs embeds the markdown pages served by the topic command.
package docs

import (
	"embed"
	"fmt"
	"slices"
	"strings"
)

//go:embed *.md
var pages embed.FS

// List returns every topic name, sorted. The readme is the table of
// contents, not a topic, so it is excluded.
func List() []string {
	entries, _ := pages.ReadDir(".")
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name == "readme" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load concatenates the named topics, one blank line apart. The name "*"
// expands to every topic from List.
func Load(names ...string) (string, error) {
	var expanded []string
	for _, name := range names {
		if name == "*" {
			expanded = append(expanded, List()...)
			continue
		}
		expanded = append(expanded, name)
	}

	var b strings.Builder
	for _, name := range expanded {
		page, err := pages.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("unknown topic %q (available: %s)", name, strings.Join(List(), ", "))
		}
		b.Write(page)
		b.WriteString("\n")
	}
	return b.String(), nil
}
