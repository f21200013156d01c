package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"text", "json", "csv", ""} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("unsupported format accepted")
	}
}

func TestTable_WriteText(t *testing.T) {
	table := &Table{
		Header: []string{"ID", "STATE"},
		Rows:   [][]string{{"f1", "discovered"}, {"finding-2", "verified"}},
	}

	var buf bytes.Buffer
	if err := table.WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "STATE") {
		t.Errorf("header = %q", lines[0])
	}
	// Column alignment: STATE starts at the same offset in every line.
	off := strings.Index(lines[0], "STATE")
	if !strings.HasPrefix(lines[2][off:], "verified") {
		t.Errorf("misaligned row: %q", lines[2])
	}
}

func TestTable_WriteCSV(t *testing.T) {
	table := &Table{
		Header: []string{"id", "note"},
		Rows:   [][]string{{"f1", `has "quotes", and commas`}},
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "id,note\n") {
		t.Errorf("missing header: %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"has ""quotes"", and commas"`) {
		t.Errorf("quoting wrong: %q", buf.String())
	}
}
