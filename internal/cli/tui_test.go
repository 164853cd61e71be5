package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/filtergraph/pkg/graph"
)

func testReport() graph.Report {
	return graph.Report{
		Name:       "scaled",
		Configured: true,
		Nodes: []graph.Node{
			{Name: "in", Filter: "buffer", Outputs: []graph.Pad{{Name: "default", Type: "video"}}},
			{Name: "out", Filter: "buffersink", Inputs: []graph.Pad{{Name: "default", Type: "video"}}},
			{Name: "scaler0", Filter: "scale", AutoInserted: true,
				Inputs:  []graph.Pad{{Name: "default", Type: "video"}},
				Outputs: []graph.Pad{{Name: "default", Type: "video"}}},
		},
		Links: []graph.Link{
			{From: "in", FromPad: "default", To: "scaler0", ToPad: "default", Type: "video", Format: "rgb24", Width: 320, Height: 240},
			{From: "scaler0", FromPad: "default", To: "out", ToPad: "default", Type: "video", Format: "yuv420p", Width: 320, Height: 240, LineSizes: []int{320, 160, 160}},
		},
	}
}

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

var (
	keyDown = tea.KeyMsg{Type: tea.KeyDown}
	keyUp   = tea.KeyMsg{Type: tea.KeyUp}
	keyTab  = tea.KeyMsg{Type: tea.KeyTab}
	keyEnd  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")}
)

func TestReportModelNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []tea.KeyMsg
		wantTab    reportTab
		wantCursor int
	}{
		{"Start", nil, tabLinks, 0},
		{"Down", []tea.KeyMsg{keyDown}, tabLinks, 1},
		{"DownClamps", []tea.KeyMsg{keyDown, keyDown, keyDown}, tabLinks, 1},
		{"UpClamps", []tea.KeyMsg{keyUp}, tabLinks, 0},
		{"TabResetsCursor", []tea.KeyMsg{keyDown, keyTab}, tabNodes, 0},
		{"EndOnNodes", []tea.KeyMsg{keyTab, keyEnd}, tabNodes, 2},
		{"TabTwice", []tea.KeyMsg{keyTab, keyTab}, tabLinks, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewReportModel(testReport()), tt.keys...).(ReportModel)
			if m.Tab != tt.wantTab || m.Cursor != tt.wantCursor {
				t.Errorf("tab = %d, cursor = %d; want %d, %d", m.Tab, m.Cursor, tt.wantTab, tt.wantCursor)
			}
		})
	}
}

func TestReportModelScroll(t *testing.T) {
	r := testReport()
	for i := 0; i < 20; i++ {
		r.Links = append(r.Links, r.Links[0])
	}
	m := NewReportModel(r)
	m.Height = 5
	var model tea.Model = m
	for i := 0; i < 7; i++ {
		model = press(model, keyDown)
	}
	got := model.(ReportModel)
	if got.Cursor != 7 || got.Offset != 3 {
		t.Errorf("cursor = %d, offset = %d; want 7, 3", got.Cursor, got.Offset)
	}
}

func TestReportModelQuit(t *testing.T) {
	_, cmd := NewReportModel(testReport()).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestReportModelView(t *testing.T) {
	m := press(NewReportModel(testReport()), keyDown).(ReportModel)
	view := m.View()
	for _, want := range []string{"scaled", "configured", "Links (2)", "yuv420p", "320x240", "[320 160 160]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = press(m, keyTab).(ReportModel)
	view = m.View()
	for _, want := range []string{"Nodes (3)", "buffersink", "default:video"} {
		if !strings.Contains(view, want) {
			t.Errorf("node view missing %q:\n%s", want, view)
		}
	}
}

func TestReportModelViewFailed(t *testing.T) {
	r := testReport()
	r.Configured = false
	r.Error = &graph.Error{Code: "DISCONNECTED_PAD", Message: "input pad default of out not connected"}
	view := NewReportModel(r).View()
	if !strings.Contains(view, "failed") || !strings.Contains(view, "DISCONNECTED_PAD") {
		t.Errorf("view = %s", view)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "May 2, 2025"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestLinkProps(t *testing.T) {
	tests := []struct {
		name string
		link graph.Link
		want string
	}{
		{"Video", graph.Link{Type: "video", Width: 320, Height: 240, SampleAspectRatio: "1/1", TimeBase: "1/25"}, "320x240 sar 1/1 tb 1/25"},
		{"Audio", graph.Link{Type: "audio", SampleRate: 48000, ChannelLayout: "stereo"}, "48000 Hz stereo"},
		{"Unresolved", graph.Link{Type: "video"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := linkProps(tt.link); got != tt.want {
				t.Errorf("linkProps() = %q, want %q", got, tt.want)
			}
		})
	}
}
