package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentSplitsAtHeadings(t *testing.T) {
	doc := strings.Join([]string{
		"# Getting Started",
		"First paragraph.",
		"",
		"## Installation",
		"Run the installer.",
		"Then reboot.",
		"## Configuration",
		"Edit the config file.",
	}, "\n")

	sections := Segment(doc)
	require.Len(t, sections, 3)

	assert.Equal(t, "Getting Started", sections[0].Title)
	assert.Equal(t, 1, sections[0].Level)
	assert.Equal(t, "getting-started", sections[0].ID)
	assert.Equal(t, "First paragraph.\n", sections[0].Content)

	assert.Equal(t, "Installation", sections[1].Title)
	assert.Equal(t, 2, sections[1].Level)
	assert.Equal(t, "Run the installer.\nThen reboot.", sections[1].Content)

	assert.Equal(t, "Configuration", sections[2].Title)
	assert.Equal(t, "Edit the config file.", sections[2].Content)
}

func TestSegmentPreambleBecomesIntroduction(t *testing.T) {
	doc := "Some preamble text.\n\n# Real Section\nBody here."

	sections := Segment(doc)
	require.Len(t, sections, 2)

	assert.Equal(t, "Introduction", sections[0].Title)
	assert.Equal(t, 0, sections[0].Level)
	assert.Equal(t, "intro", sections[0].ID)
	assert.Equal(t, "Some preamble text.\n", sections[0].Content)
	assert.Equal(t, "Real Section", sections[1].Title)
}

func TestSegmentNoHeadingsYieldsSingleSection(t *testing.T) {
	doc := "Just plain text.\nAnother line."

	sections := Segment(doc)
	require.Len(t, sections, 1)
	assert.Equal(t, "Introduction", sections[0].Title)
	assert.Equal(t, doc, sections[0].Content)
}

func TestSegmentEmptyDocument(t *testing.T) {
	// Splitting "" on newlines gives one empty line, so the implicit
	// Introduction survives with empty content. Chunking discards it.
	sections := Segment("")
	require.Len(t, sections, 1)
	assert.Equal(t, "Introduction", sections[0].Title)
	assert.Empty(t, sections[0].Content)
}

func TestSegmentHeadingWithEmptyBodyIsDropped(t *testing.T) {
	// Back-to-back headings leave the first with no body lines at all.
	doc := "# First\n# Second\ncontent"

	sections := Segment(doc)
	require.Len(t, sections, 1)
	assert.Equal(t, "Second", sections[0].Title)
}

// Every non-heading line of the input must land in exactly one section, in
// document order.
func TestSegmentCoversAllBodyLines(t *testing.T) {
	doc := strings.Join([]string{
		"intro line",
		"# One",
		"alpha",
		"beta",
		"### Deep (Nested)",
		"gamma",
		"",
		"delta",
	}, "\n")

	sections := Segment(doc)

	var got []string
	for _, s := range sections {
		got = append(got, strings.Split(s.Content, "\n")...)
	}
	want := []string{"intro line", "alpha", "beta", "gamma", "", "delta"}
	assert.Equal(t, want, got)
}

func TestSlugifyTitle(t *testing.T) {
	cases := map[string]string{
		"Getting Started":        "getting-started",
		"ROS 2 (Humble)":         "ros-2-humble",
		"Input/Output Streams":   "input-output-streams",
		"Simple":                 "simple",
		"Trailing (Parenthesis)": "trailing-parenthesis",
	}
	for title, want := range cases {
		assert.Equal(t, want, SlugifyTitle(title), "title %q", title)
	}
}
