package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Name", "Age"})

	table.AddRow([]string{"Alice", "30"})
	table.AddRow([]string{"Bob"})
	table.AddRow([]string{"Charlie", "25", "Extra"})

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	if len(table.rows[1]) != 2 || table.rows[1][1] != "" {
		t.Errorf("Expected short row padded with empty cell, got %q", table.rows[1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected long row truncated to 2 columns, got %d", len(table.rows[2]))
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"Name", "Count"})
	table.SetAlignRight(1)
	table.AddRow([]string{"a", "5"})
	table.AddRow([]string{"bbbbbb", "123"})

	want := strings.Join([]string{
		"Name    Count",
		"------  -----",
		"a           5",
		"bbbbbb    123",
	}, "\n") + "\n"

	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderTrimsTrailingSpace(t *testing.T) {
	table := NewTable([]string{"Colour", "X"})
	table.AddRow([]string{"#ffffff", ""})

	for _, line := range strings.Split(strings.TrimSuffix(table.Render(), "\n"), "\n") {
		if strings.HasSuffix(line, " ") {
			t.Errorf("line %q has trailing space", line)
		}
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Expected empty string for table without headers, got: %q", got)
	}

	got := NewTable([]string{"Column1", "Column2"}).Render()
	if got != "Column1  Column2\n-------  -------\n" {
		t.Errorf("Render() without rows = %q", got)
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		input string
		width int
		right string
		left  string
	}{
		{"test", 6, "test  ", "  test"},
		{"hello", 5, "hello", "hello"},
		{"world", 3, "world", "world"},
		{"", 2, "  ", "  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.right {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.right)
		}
		if got := padLeft(tt.input, tt.width); got != tt.left {
			t.Errorf("padLeft(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.left)
		}
	}
}
