package cli

import (
	"bytes"
	"strings"
	"testing"
)

func newTestOutput(jsonMode bool) (*Output, *bytes.Buffer, *bytes.Buffer) {
	var w, errW bytes.Buffer
	return &Output{jsonMode: jsonMode, w: &w, errW: &errW}, &w, &errW
}

func TestTable_Alignment(t *testing.T) {
	out, w, _ := newTestOutput(false)

	out.Table(
		[]string{"ID", "NAME"},
		[][]string{
			{"1", "marina"},
			{"2", "val"},
		},
	)

	want := "ID  NAME\n" +
		"--  ----\n" +
		"1   marina\n" +
		"2   val\n"
	if got := w.String(); got != want {
		t.Errorf("table output:\n%q\nwant:\n%q", got, want)
	}
}

func TestTable_Empty(t *testing.T) {
	out, w, _ := newTestOutput(false)

	out.Table([]string{"ID", "NAME"}, nil)

	if got := w.String(); got != "(none)\n" {
		t.Errorf("empty table output %q, want \"(none)\\n\"", got)
	}
}

func TestPrint_JSONMode(t *testing.T) {
	out, w, _ := newTestOutput(true)

	out.Print(
		[]string{"ID"},
		[][]string{{"1"}},
		struct {
			ID string `json:"id"`
		}{ID: "1"},
	)

	got := w.String()
	if !strings.Contains(got, `"id": "1"`) {
		t.Errorf("json output %q, want id field", got)
	}
	if strings.Contains(got, "--") {
		t.Errorf("json mode must not render a table, got %q", got)
	}
}

func TestMessages_GoToStderr(t *testing.T) {
	out, w, errW := newTestOutput(false)

	out.Success("done")
	out.Error("boom")

	if w.Len() != 0 {
		t.Errorf("messages leaked into data stream: %q", w.String())
	}
	if got := errW.String(); got != "done\nError: boom\n" {
		t.Errorf("stderr output %q", got)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{30, "30"},
		{55, "55"},
		{32.4, "32.4"},
		{-12.5, "-12.5"},
		{0, "0"},
		{100, "100"},
	}

	for _, tt := range tests {
		if got := Score(tt.value); got != tt.want {
			t.Errorf("Score(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}

	long := strings.Repeat("x", 80)
	got := truncate(long, 60)
	if len([]rune(got)) != 60 {
		t.Errorf("truncated length = %d, want 60", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated cell %q must end with ellipsis", got)
	}
}
