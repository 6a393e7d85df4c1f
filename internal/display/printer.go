// Package display writes stories and feed summaries as plain terminal lines.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/fragmede/hnstories/internal/aggregator"
	"github.com/fragmede/hnstories/internal/api"
)

var hnOrange = lipgloss.Color("#FF6600")

// Printer writes story lines to w. Styling is applied only when w is a terminal.
type Printer struct {
	w      io.Writer
	styled bool

	headerStyle lipgloss.Style
	indexStyle  lipgloss.Style
	titleStyle  lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		styled: isTerminal(w),

		headerStyle: r.NewStyle().Bold(true).Foreground(hnOrange),
		indexStyle:  r.NewStyle().Foreground(lipgloss.Color("#828282")),
		titleStyle:  r.NewStyle().Bold(true),
		errorStyle:  r.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Header returns "Story Type: <Name>".
func Header(cat api.Category) string {
	return "Story Type: " + cat.String()
}

// Line returns "Story #<index> - id: <id> - <title>".
func Line(index int, id uint64, title string) string {
	return fmt.Sprintf("Story #%d - id: %d - %s", index, id, title)
}

// PrintHeader writes the section header for cat.
func (p *Printer) PrintHeader(cat api.Category) error {
	_, err := fmt.Fprintln(p.w, p.render(p.headerStyle, Header(cat)))
	return err
}

// PrintEntries writes one line per resolved story.
func (p *Printer) PrintEntries(entries []aggregator.Entry) error {
	for _, e := range entries {
		if err := p.PrintStory(e.Index, e.Story); err != nil {
			return err
		}
	}
	return nil
}

// PrintStory writes a single story line.
func (p *Printer) PrintStory(index int, s *api.Story) error {
	var line string
	if p.styled {
		line = p.render(p.indexStyle, fmt.Sprintf("Story #%d - id: %d -", index, s.ID)) +
			" " + p.render(p.titleStyle, s.Title)
	} else {
		line = Line(index, s.ID, s.Title)
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// PrintDetail writes a story line followed by its metadata.
func (p *Printer) PrintDetail(s *api.Story) error {
	if err := p.PrintStory(0, s); err != nil {
		return err
	}
	parts := []string{fmt.Sprintf("%d points", s.Score), "by " + s.By, s.Type}
	if s.Descendants != nil {
		parts = append(parts, fmt.Sprintf("%d comments", *s.Descendants))
	}
	if _, err := fmt.Fprintln(p.w, "  "+strings.Join(parts, " | ")); err != nil {
		return err
	}
	if s.URL != "" {
		if _, err := fmt.Fprintln(p.w, "  "+s.URL); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary writes the ID count and leading IDs of every feed in resp,
// plus the error of any feed that failed.
func (p *Printer) PrintSummary(resp *aggregator.Response, preview int) error {
	for _, cat := range api.ListCategories {
		if err := resp.CategoryErr(cat); err != nil {
			if _, werr := fmt.Fprintf(p.w, "%s: %s\n", cat, p.render(p.errorStyle, err.Error())); werr != nil {
				return werr
			}
			continue
		}
		ids, ok := resp.IDs(cat)
		if !ok {
			if _, err := fmt.Fprintf(p.w, "%s: not fetched\n", cat); err != nil {
				return err
			}
			continue
		}
		head := ids
		if preview >= 0 && len(head) > preview {
			head = head[:preview]
		}
		strs := make([]string, len(head))
		for i, id := range head {
			strs[i] = fmt.Sprint(id)
		}
		more := ""
		if len(head) < len(ids) {
			more = ", ..."
		}
		_, err := fmt.Fprintf(p.w, "%s: %d ids [%s%s]\n",
			p.render(p.headerStyle, cat.String()), len(ids), strings.Join(strs, ", "), more)
		if err != nil {
			return err
		}
	}
	return nil
}
