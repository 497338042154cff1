// Package report renders the end-of-run summary as markdown.
package report

import (
	"fmt"
	"io"
	"lemmony/internal/syncer"
	"lemmony/pkg/domain"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
)

// AutoStyle picks a dark or light glamour style from the terminal background.
const AutoStyle = "auto"

// Markdown renders r as a markdown document.
func Markdown(r *syncer.Report) string {
	var b strings.Builder

	title := "# lemmony run"
	if r.DryRun {
		title += " (dry run)"
	}
	b.WriteString(title + "\n\n")

	b.WriteString("| | |\n|---|---|\n")
	row(&b, "Duration", r.Duration().Round(time.Millisecond).String())
	row(&b, "Communities in directory", r.Communities)
	row(&b, "Magazines in directory", r.Magazines)
	row(&b, "Known to the instance", r.Known)
	row(&b, "Skipped (already known)", r.AlreadyKnown)
	row(&b, "Skipped (already processed)", r.AlreadyProcessed)
	if r.DryRun {
		row(&b, "Would discover", r.Searched)
		row(&b, "Would follow", r.Unsubscribed)
	} else {
		row(&b, "Discovered", r.Searched)
		row(&b, "Discovery warnings", len(r.Warnings))
		row(&b, "Not subscribed", r.Unsubscribed)
		row(&b, "Followed", r.Followed())
	}

	if len(r.Follows) > 0 {
		b.WriteString("\n## Follows\n\n")
		states := make([]string, 0, len(r.Follows))
		for state := range r.Follows {
			states = append(states, string(state))
		}
		sort.Strings(states)
		for _, state := range states {
			fmt.Fprintf(&b, "- %s: %d\n", state, r.Follows[domain.SubscribedType(state)])
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Discovery warnings\n\n")
		for _, w := range r.Warnings {
			status := "no response"
			if w.Status != 0 {
				status = fmt.Sprintf("status %d", w.Status)
			}
			fmt.Fprintf(&b, "- `%s`: %s\n", w.ActorID, status)
		}
	}

	return b.String()
}

func row(b *strings.Builder, name string, value any) {
	fmt.Fprintf(b, "| %s | %v |\n", name, value)
}

// Render writes the summary of r to w. An empty style writes the raw markdown,
// AutoStyle detects the terminal background and any other value names a
// glamour standard style such as "dark" or "notty".
func Render(w io.Writer, r *syncer.Report, style string) error {
	md := Markdown(r)
	if style == "" {
		_, err := io.WriteString(w, md)

		return err //nolint: wrapcheck
	}

	styleOpt := glamour.WithStandardStyle(style)
	if style == AutoStyle {
		styleOpt = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("could not create renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}
	_, err = io.WriteString(w, out)

	return err //nolint: wrapcheck
}
