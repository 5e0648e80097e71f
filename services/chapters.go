package services

import "strings"

// chapterTitles maps chapter ids (markdown filename stems) to the human
// titles shown in citations. Unknown ids fall back to a title-cased form
// of the id.
var chapterTitles = map[string]string{
	"intro":                  "Introduction",
	"chapter-01-foundations": "Physical AI Foundations",
	"chapter-02-ros2":        "ROS 2",
	"chapter-03-gazebo":      "Gazebo & Digital Twins",
	"chapter-04-isaac":       "NVIDIA Isaac",
	"chapter-05-vla":         "Vision-Language-Action Models",
	"chapter-06-capstone":    "Capstone Project",
}

// suggestedChapters are the starting points offered with every
// out-of-scope answer. Must stay non-empty.
var suggestedChapters = []string{"intro", "chapter-01-foundations"}

// ChapterTitle formats a chapter id into a readable title.
func ChapterTitle(chapterID string) string {
	if title, ok := chapterTitles[chapterID]; ok {
		return title
	}
	return titleCase(strings.ReplaceAll(chapterID, "-", " "))
}

// SuggestedChapters returns a copy so callers cannot mutate the catalog.
func SuggestedChapters() []string {
	out := make([]string, len(suggestedChapters))
	copy(out, suggestedChapters)
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
