package hub

import (
	"encoding/json"
	"testing"

	"github.com/shaply/rmibridge/internal/storage"
)

func TestParseMotionCSVMinimalColumns(t *testing.T) {
	defaults := &storage.RobotSettings{DefaultSpeed: 100, DefaultTermType: "FINE"}

	rows, err := parseMotionCSV("1,2,3\n4,5,6\n", defaults)
	if err != nil {
		t.Fatalf("parseMotionCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d; want 2", len(rows))
	}

	var first motionRow
	if err := json.Unmarshal(rows[0].Payload, &first); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if first.X != 1 || first.Y != 2 || first.Z != 3 {
		t.Errorf("first = %+v; want X=1 Y=2 Z=3", first)
	}
	if first.Speed != 100 || first.TermType != "FINE" {
		t.Errorf("first = %+v; want defaulted Speed=100 TermType=FINE", first)
	}
	if rows[0].Line != 1 || rows[1].Line != 2 {
		t.Errorf("lines = %d, %d; want 1, 2", rows[0].Line, rows[1].Line)
	}
}

func TestParseMotionCSVFullColumns(t *testing.T) {
	defaults := &storage.RobotSettings{DefaultSpeed: 100, DefaultTermType: "FINE"}

	rows, err := parseMotionCSV("1,2,3,10,20,30,50,CNT50\n", defaults)
	if err != nil {
		t.Fatalf("parseMotionCSV: %v", err)
	}
	var row motionRow
	json.Unmarshal(rows[0].Payload, &row)
	if row.W != 10 || row.P != 20 || row.R != 30 {
		t.Errorf("orientation = %+v; want W=10 P=20 R=30", row)
	}
	if row.Speed != 50 {
		t.Errorf("Speed = %v; want overridden 50", row.Speed)
	}
	if row.TermType != "CNT50" {
		t.Errorf("TermType = %q; want CNT50", row.TermType)
	}
}

func TestParseMotionCSVSkipsBlankLines(t *testing.T) {
	defaults := &storage.RobotSettings{}
	rows, err := parseMotionCSV("1,2,3\n\n4,5,6\n", defaults)
	if err != nil {
		t.Fatalf("parseMotionCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d; want 2 (blank line skipped)", len(rows))
	}
}

func TestParseMotionCSVRejectsTooFewColumns(t *testing.T) {
	_, err := parseMotionCSV("1,2\n", &storage.RobotSettings{})
	if err == nil {
		t.Fatal("expected error for row with fewer than 3 columns")
	}
}

func TestParseMotionCSVRejectsNonNumericAxis(t *testing.T) {
	_, err := parseMotionCSV("x,2,3\n", &storage.RobotSettings{})
	if err == nil {
		t.Fatal("expected error for non-numeric x")
	}
}
