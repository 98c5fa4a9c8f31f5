// Package docs embeds the documentation topics shipped with the sta tool.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.md
var topicFS embed.FS

// Topics returns the available topic names, sorted. The readme indexes the
// topics and is not listed as one itself.
func Topics() []string {
	entries, err := fs.ReadDir(topicFS, ".")
	if err != nil {
		// the FS is embedded at build time, it cannot fail to list.
		panic(err)
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name == "readme" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the content of the named topics, concatenated in order. The
// name "*" expands to every topic, and "readme" loads the index.
func Load(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		if name == "*" {
			all, err := Load(Topics()...)
			if err != nil {
				return "", err
			}
			b.WriteString(all)
			continue
		}
		content, err := topicFS.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("unknown topic %q", name)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
