package tui

import (
	"encoding/json"
	"strings"
	"testing"

	"timeline-cli/internal/model"
	"timeline-cli/internal/reorder"
	"timeline-cli/internal/view"

	"github.com/charmbracelet/lipgloss"
)

func sampleEntries() []model.Entry {
	return []model.Entry{
		{ID: "m1", Type: model.EntryMemory, Title: "Undated picnic", Position: model.SideLeft},
		{ID: "s1", Type: model.EntryMilestone, Title: "Graduation", Date: "2024-06-01"},
		{ID: "m2", Type: model.EntryMemory, Title: "Lake trip", Date: "2024-07-04", Position: model.SideRight, Image: "data:image/jpeg;base64,/9j/"},
	}
}

func TestStaticTimeline_RendersNodes(t *testing.T) {
	tl := view.Build(sampleEntries(), reorder.Idle{})
	out := StaticTimeline{Timeline: tl, Width: 80}.RenderText()

	for _, want := range []string{"Undated picnic", view.NoDateLabel, view.NoPhotoLabel, "Graduation", "Jun 1, 2024", "Lake trip", "image/jpeg"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "move here") {
		t.Fatalf("no markers expected when idle:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 80 {
			t.Fatalf("line wider than 80 (%d): %q", w, line)
		}
	}
}

func TestStaticTimeline_Empty(t *testing.T) {
	out := StaticTimeline{Timeline: view.Build(nil, reorder.Idle{})}.RenderText()
	if !strings.Contains(out, "No entries yet") {
		t.Fatalf("unexpected empty rendering: %q", out)
	}
}

func TestStaticTimeline_JSONIsViewModel(t *testing.T) {
	b, err := json.Marshal(StaticTimeline{Timeline: view.Build(sampleEntries(), reorder.Idle{}), Width: 80})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := got["nodes"]; !ok {
		t.Fatalf("expected nodes key, got %s", b)
	}
	if _, ok := got["Width"]; ok {
		t.Fatalf("width must not be serialized: %s", b)
	}
}

func TestRenderRows_MarkersWhileMoving(t *testing.T) {
	tl := view.Build(sampleEntries(), reorder.Selecting{Index: 2})
	blocks := renderRows(tl, 80, -1)
	if len(blocks) != len(tl.Rows()) {
		t.Fatalf("expected one block per row: %d vs %d", len(blocks), len(tl.Rows()))
	}
	joined := strings.Join(blocks, "\n")
	for _, want := range []string{"move here (0)", "move here (1)", "moving"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in output:\n%s", want, joined)
		}
	}
	for _, notWant := range []string{"move here (2)", "move here (3)"} {
		if strings.Contains(joined, notWant) {
			t.Fatalf("no-op marker %q must not be shown:\n%s", notWant, joined)
		}
	}
}

func TestRenderMemory_SidesFollowPosition(t *testing.T) {
	left := renderMemory(view.Node{Title: "L", DisplayDate: view.NoDateLabel, Side: model.SideLeft, ImageLabel: view.NoPhotoLabel}, 80, false)
	right := renderMemory(view.Node{Title: "R", DisplayDate: view.NoDateLabel, Side: model.SideRight, ImageLabel: view.NoPhotoLabel}, 80, false)

	mid := columnWidth(80)
	lLine := strings.Split(left, "\n")[2]
	rLine := strings.Split(right, "\n")[2]
	if i := strings.Index(lLine, "L"); i < 0 || lipgloss.Width(lLine[:i]) >= mid {
		t.Fatalf("left card should sit left of the rail: %q", lLine)
	}
	if i := strings.Index(rLine, "R"); i < 0 || lipgloss.Width(rLine[:i]) <= mid {
		t.Fatalf("right card should sit right of the rail: %q", rLine)
	}
}
