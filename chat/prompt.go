package chat

import (
	"strings"
)

// NoteRef is the rendered view of a retrieved note inside a prompt.
type NoteRef struct {
	Title   string
	Content string
}

// PromptTemplate is the localizable text skeleton for the assistant's
// system message. Loaded from the prompts file at startup.
type PromptTemplate struct {
	// System scope-limits the assistant to career guidance and instructs
	// refusal of off-topic queries.
	System string `yaml:"system"`

	// OwnHeading introduces the user's own retrieved notes.
	OwnHeading string `yaml:"own_heading"`

	// PeerHeading introduces notes from semantically similar users. The
	// whole section is omitted when no peer notes were retrieved.
	PeerHeading string `yaml:"peer_heading"`

	// NoNotes replaces the notes section when retrieval found nothing, so
	// the model never sees a dangling empty section.
	NoNotes string `yaml:"no_notes"`
}

// BuildSystemPrompt assembles the system-role message from the template and
// the retrieved notes.
func BuildSystemPrompt(tmpl PromptTemplate, ownNotes, peerNotes []NoteRef) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(tmpl.System))
	sb.WriteString("\n")
	sb.WriteString(tmpl.OwnHeading)
	sb.WriteString("\n")

	if len(ownNotes) == 0 {
		sb.WriteString(tmpl.NoNotes)
	} else {
		sb.WriteString(renderNotes(ownNotes))
	}

	if len(peerNotes) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(tmpl.PeerHeading)
		sb.WriteString("\n")
		sb.WriteString(renderNotes(peerNotes))
	}

	return sb.String()
}

func renderNotes(notes []NoteRef) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = "Title: " + n.Title + "\nContent:\n" + n.Content
	}
	return strings.Join(parts, "\n\n")
}
