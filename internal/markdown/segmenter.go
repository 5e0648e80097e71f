package markdown

import (
	"regexp"
	"strings"
)

// Section is a heading-delimited slice of a markdown document. Sections are
// produced in document order and together cover every non-heading line of
// the input.
type Section struct {
	Title   string
	Level   int
	ID      string
	Content string
}

var headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Segment splits markdown text into sections at heading boundaries.
//
// Lines before the first heading accumulate under an implicit
// "Introduction" section at level 0 with id "intro". A heading line closes
// the current section, which is emitted only if it accumulated at least
// one body line; a document with no headings therefore yields exactly one
// section. Empty body lines count, so downstream chunking is what discards
// sections with no usable text.
func Segment(content string) []Section {
	lines := strings.Split(content, "\n")

	var sections []Section
	current := Section{Title: "Introduction", Level: 0, ID: "intro"}
	var body []string

	for _, line := range lines {
		m := headingRegex.FindStringSubmatch(line)
		if m == nil {
			body = append(body, line)
			continue
		}

		if len(body) > 0 {
			current.Content = strings.Join(body, "\n")
			sections = append(sections, current)
		}

		title := strings.TrimSpace(m[2])
		current = Section{
			Title: title,
			Level: len(m[1]),
			ID:    SlugifyTitle(title),
		}
		body = nil
	}

	if len(body) > 0 {
		current.Content = strings.Join(body, "\n")
		sections = append(sections, current)
	}

	return sections
}

// SlugifyTitle derives the anchor id used in deep links: lower-cased,
// spaces and slashes become hyphens, parentheses are stripped. This must
// match the ids the site generator emits for headings.
func SlugifyTitle(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "/", "-")
	slug = strings.ReplaceAll(slug, "(", "")
	slug = strings.ReplaceAll(slug, ")", "")
	return slug
}
