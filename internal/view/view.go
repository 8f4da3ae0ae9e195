// Package view projects the ordered entry sequence into a render-ready view model.
// It never mutates or stores anything; callers pass in a snapshot and the move state.
package view

import (
	"timeline-cli/internal/imagedata"
	"timeline-cli/internal/model"
	"timeline-cli/internal/reorder"
)

const (
	NoDateLabel  = "No Date"
	NoPhotoLabel = "NO PHOTO"

	displayDateLayout = "Jan 2, 2006"
)

type Action string

const (
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionSwapSide Action = "swap-side"
	ActionMove     Action = "move"
)

type Node struct {
	Index       int             `json:"index"`
	ID          string          `json:"id"`
	Type        model.EntryType `json:"type"`
	Title       string          `json:"title"`
	Date        string          `json:"date,omitempty"`
	DisplayDate string          `json:"displayDate"`
	Side        model.Side      `json:"side,omitempty"`
	Note        string          `json:"note,omitempty"`
	HasImage    bool            `json:"hasImage"`
	ImageLabel  string          `json:"imageLabel,omitempty"`
	Moving      bool            `json:"moving,omitempty"`
	Actions     []Action        `json:"actions"`
}

// Marker is an insertion point shown while a move is active. Target is the index to commit.
type Marker struct {
	Target int `json:"target"`
}

type Timeline struct {
	Nodes   []Node   `json:"nodes"`
	Markers []Marker `json:"markers,omitempty"`
	// MovingIndex is the selected entry's index, or -1 when no move is active.
	MovingIndex int `json:"movingIndex"`
}

// Build projects entries in their current order.
//
// While an entry is selected for moving, markers are emitted at every boundary 0..n except
// the two boundaries touching the moved slot, since committing there would not move anything.
func Build(entries []model.Entry, st reorder.State) Timeline {
	tl := Timeline{Nodes: make([]Node, 0, len(entries)), MovingIndex: -1}

	if sel, ok := st.(reorder.Selecting); ok && sel.Index >= 0 && sel.Index < len(entries) {
		tl.MovingIndex = sel.Index
	}

	for i, e := range entries {
		tl.Nodes = append(tl.Nodes, buildNode(i, e, i == tl.MovingIndex))
	}

	if tl.MovingIndex >= 0 {
		for b := 0; b <= len(entries); b++ {
			if b == tl.MovingIndex || b == tl.MovingIndex+1 {
				continue
			}
			tl.Markers = append(tl.Markers, Marker{Target: b})
		}
	}
	return tl
}

func buildNode(i int, e model.Entry, moving bool) Node {
	n := Node{
		Index:       i,
		ID:          e.ID,
		Type:        e.Type,
		Title:       e.Title,
		Date:        e.Date,
		DisplayDate: FormatDate(e.Date),
		Moving:      moving,
	}
	if e.IsMilestone() {
		n.Actions = []Action{ActionEdit, ActionDelete, ActionMove}
		return n
	}
	n.Side = e.EffectiveSide()
	n.Note = e.Note
	n.HasImage = e.Image != ""
	if n.HasImage {
		n.ImageLabel = imagedata.MIMEType(e.Image)
	} else {
		n.ImageLabel = NoPhotoLabel
	}
	n.Actions = []Action{ActionSwapSide, ActionEdit, ActionDelete, ActionMove}
	return n
}

// FormatDate renders an entry date like "Jan 5, 2024", or the no-date placeholder.
func FormatDate(s string) string {
	t, ok := model.ParseDate(s)
	if !ok {
		return NoDateLabel
	}
	return t.Format(displayDateLayout)
}

// Row is one line of the interleaved node/marker sequence, in display order.
type Row struct {
	Node   *Node
	Marker *Marker
}

// Rows interleaves markers with nodes: the marker with Target b is placed before node b.
func (tl Timeline) Rows() []Row {
	markerAt := make(map[int]*Marker, len(tl.Markers))
	for i := range tl.Markers {
		markerAt[tl.Markers[i].Target] = &tl.Markers[i]
	}
	rows := make([]Row, 0, len(tl.Nodes)+len(tl.Markers))
	for i := range tl.Nodes {
		if m, ok := markerAt[i]; ok {
			rows = append(rows, Row{Marker: m})
		}
		rows = append(rows, Row{Node: &tl.Nodes[i]})
	}
	if m, ok := markerAt[len(tl.Nodes)]; ok {
		rows = append(rows, Row{Marker: m})
	}
	return rows
}

func (n Node) Has(a Action) bool {
	for _, x := range n.Actions {
		if x == a {
			return true
		}
	}
	return false
}
