package ui

import (
	"strings"
	"testing"
	"time"

	"chimp/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan driver.Event)
	files := []string{"a.json", "b.json"}
	model := NewProgressModel("resolving", files, events).(*progressModel)

	model.Update(eventMsg(driver.Event{File: "a.json", Stage: driver.StageDecode, Status: driver.StatusWorking}))
	if got := model.rows[0].label(); got != "decoding" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := model.rows[0].share(); got != 0.4 {
		t.Fatalf("decode share = %v", got)
	}
	model.Update(eventMsg(driver.Event{File: "a.json", Stage: driver.StageResolve, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond}))
	model.Update(eventMsg(driver.Event{File: "b.json", Stage: driver.StageResolve, Status: driver.StatusError}))
	model.Update(eventMsg(driver.Event{File: "unknown.json", Status: driver.StatusDone}))

	finished, failed := model.counts()
	if finished != 2 || failed != 1 {
		t.Fatalf("counts = %d/%d", finished, failed)
	}
	view := model.View()
	for _, want := range []string{"2/2 units", "1 with errors", "b.json", "failed", "3ms"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	if _, cmd := model.Update(doneMsg{}); cmd == nil || !model.done {
		t.Fatalf("done message must quit")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"internal/very/long/path.json", 10, "interna..."},
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
