package main

import (
	"fmt"

	"github.com/andareed/markwrite/segment"
	"github.com/andareed/markwrite/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/muesli/reflow/truncate"
)

const (
	rootFGColor   = "#e0e0e0"
	nameFGColor   = "#c0c0c0"
	detailFGColor = "245"

	maxNameWidth = 40
)

var (
	// Styles
	rootStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(rootFGColor))
	nameStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(nameFGColor))
	detailStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(detailFGColor))
	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
	lockedMarker    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("[L]")
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// renderTree draws the project's segment tree, one line per segment.
func renderTree(p *session.Project) string {
	root := p.Tree.Root()
	t := tree.Root(rootStyle.Render(fmt.Sprintf("%s (%d samples, %d segments)",
		truncate.StringWithTail(root.Name(), maxNameWidth, "…"), p.Series.Len(), p.Tree.TotalCount()))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle)

	for _, id := range root.Children() {
		t.Child(segmentNode(p, id))
	}
	return t.String()
}

func segmentNode(p *session.Project, id segment.ID) *tree.Tree {
	s, _ := p.Tree.Get(id)
	n := tree.Root(segmentLabel(s)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle)
	for _, c := range s.Children() {
		n.Child(segmentNode(p, c))
	}
	return n
}

func segmentLabel(s *segment.Segment) string {
	label := nameStyle.Render(truncate.StringWithTail(s.Name(), maxNameWidth, "…")) + " " +
		detailStyle.Render(fmt.Sprintf("%s %.3f-%.3fs", s.Range(), s.Start(), s.End()))
	if s.Locked() {
		label += " " + lockedMarker
	}
	return label
}
