package stats

import (
	"bytes"
	"testing"

	"github.com/verte-zerg/huepattern/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Model", "Mistakes", "Score"}
	rows := [][]string{
		{"RGB", "12", "0.5"},
		{"CIELAB", "3", "1.25"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Model  Mistakes Score" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "------ -------- -----" {
		t.Fatalf("unexpected rule line: %q", lines[1])
	}
	if lines[2] != "RGB          12   0.5" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "CIELAB        3  1.25" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"A", "Status"}, [][]string{{"x", ""}}, nil)
	if lines[2] != "x" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[2])
	}
}

func TestRenderResults(t *testing.T) {
	var buf bytes.Buffer
	results := []model.StatisticResult{
		{Model: "RGB", T: 5, K: 500, L: 0.25},
		{Model: "RGB", T: 10, K: 4200.5, L: 0.5},
	}
	if err := RenderResults(&buf, results); err != nil {
		t.Fatalf("RenderResults: %v", err)
	}
	want := "Model  t      K    L\n----- -- ------ ----\nRGB    5    500 0.25\nRGB   10 4200.5  0.5\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q", buf.String())
	}
}
