package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// This test keeps the documentation index in sync with the topic files:
	// every topic listed in readme.md must load, and every .md file (except
	// readme.md itself) must be listed in readme.md.

	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile("^-\\s+`([^`]+)`:.*$")

	for scanner.Scan() {
		line := scanner.Text()
		matches := topicRegex.FindStringSubmatch(line)
		if len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	if len(topicsInReadme) == 0 {
		t.Fatal("no topics listed in readme.md")
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := Load(topic); err != nil {
				t.Errorf("failed to load topic %q: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, f := range files {
		base := filepath.Base(f)
		if base == "readme.md" {
			continue
		}
		name := strings.TrimSuffix(base, ".md")
		found := false
		for _, topic := range topicsInReadme {
			if topic == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in readme.md", name)
		}
	}
}

func TestTopicsListsEveryFile(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	want := len(files) - 1 // readme.md is the index, not a topic
	if got := Topics(); len(got) != want {
		t.Errorf("Topics() = %v, want %d names", got, want)
	}
	for _, name := range Topics() {
		if name == "readme" {
			t.Error("Topics() lists the readme")
		}
	}
}

func TestTopicsAreWellFormed(t *testing.T) {
	// Every topic must parse as markdown and open with a level-1 heading.
	for _, topic := range append(Topics(), "readme") {
		t.Run(topic, func(t *testing.T) {
			content, err := Load(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))

			first := root.FirstChild()
			if first == nil {
				t.Fatal("topic is empty")
			}
			h, ok := first.(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("topic does not start with a level-1 heading")
			}
		})
	}
}

func TestLoadStar(t *testing.T) {
	all, err := Load("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range Topics() {
		content, err := Load(topic)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(all, content) {
			t.Errorf("Load(\"*\") does not contain topic %q", topic)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("no-such-topic"); err == nil {
		t.Error("expected an error for an unknown topic")
	}
}
