package domain

import "strings"

// Panel is a free-form named block rendered in the accumulated-state
// sidebar. Panels are a projection over the transcript and reducer
// output; they are never stored.
type Panel struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

const (
	historyPanelTitle = "History"
	historyPanelSize  = 20
	historyLineLimit  = 50
)

// BuildPanels derives the sidebar panels from the current transcript.
// Empty transcripts produce no panels.
func BuildPanels(messages []*Message) []Panel {
	if len(messages) == 0 {
		return nil
	}

	recent := messages
	if len(recent) > historyPanelSize {
		recent = recent[len(recent)-historyPanelSize:]
	}

	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		lines = append(lines, "["+string(msg.Role)+"] "+truncate(msg.Content, historyLineLimit))
	}

	return []Panel{{
		Title:   historyPanelTitle,
		Content: strings.Join(lines, "\n"),
	}}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
