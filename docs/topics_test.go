package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	// This test ensures that the documentation is in sync with itself:
	// every topic listed in readme.md loads, and every .md file (readme
	// excluded) is listed in readme.md.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	for _, topic := range topicsInReadme {
		if _, err := Load(topic); err != nil {
			t.Errorf("topic %q listed in readme.md does not load: %v", topic, err)
		}
	}

	for _, topic := range List() {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestLoadStar(t *testing.T) {
	doc, err := Load("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Cooking", "# Schedules", "# Budgets"} {
		if !strings.Contains(doc, want) {
			t.Errorf("Load(*) is missing %q", want)
		}
	}
}

func TestLoadUnknownTopic(t *testing.T) {
	if _, err := Load("nonsense"); err == nil {
		t.Fatal("Load should fail on an unknown topic")
	}
}
