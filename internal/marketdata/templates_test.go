package marketdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRound3(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.0909090909, 0.091},
		{0.0914999, 0.091},
		{0.0915001, 0.092},
		{0.5, 0.5},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Round3(tt.in); got != tt.want {
			t.Errorf("Round3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizedRatio(t *testing.T) {
	if got := NormalizedRatio(110, 10); got != 0.091 {
		t.Errorf("NormalizedRatio(110, 10) = %v, want 0.091", got)
	}
	if got := NormalizedRatio(0, 10); got != 0 {
		t.Errorf("NormalizedRatio with zero high = %v, want 0", got)
	}
	if got := NormalizedRatio(50, 50); got != 1 {
		t.Errorf("NormalizedRatio(50, 50) = %v, want 1", got)
	}
}

func TestFilterByRatio(t *testing.T) {
	table := NewTemplateTable([]TemplateRow{
		{CompanyID: 1, Day: 1, LowRatio: 0.0909090909},
		{CompanyID: 1, Day: 2, LowRatio: 0.091},
		{CompanyID: 2, Day: 1, LowRatio: 0.5},
	})

	// the unrounded query ratio must hit the rounded bucket
	got := table.FilterByRatio(10.0 / 110.0)
	if len(got) != 2 {
		t.Fatalf("FilterByRatio(0.0909..) returned %d rows, want 2", len(got))
	}
	if got := table.FilterByRatio(0.25); got != nil {
		t.Errorf("empty bucket returned %d rows", len(got))
	}
}

func TestLoadTemplateCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.csv")
	content := "company_id,day,seconds,ask_price,bid_price,price,normalized_low,normalized_high\n" +
		"7,1,0,0.4,0.35,0.3,0.0909090909,1\n" +
		"7,1,900,0.41,0.36,0.31,0.0909090909,1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	table, err := LoadTemplateCSV(path)
	if err != nil {
		t.Fatalf("LoadTemplateCSV: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	rows := table.FilterByRatio(0.091)
	if len(rows) != 2 {
		t.Fatalf("ratio bucket has %d rows, want 2", len(rows))
	}
	if rows[0].CompanyID != 7 || rows[0].Seconds != 0 || rows[0].Ask != 0.4 {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].Seconds != 900 {
		t.Errorf("second row seconds = %d, want 900", rows[1].Seconds)
	}
}

func TestLoadTemplateCSVRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing file", ""},
		{"short record", "h1,h2,h3,h4,h5,h6,h7,h8\n1,2,3\n"},
		{"non-numeric field", "h1,h2,h3,h4,h5,h6,h7,h8\nx,1,0,0.4,0.3,0.3,0.1,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "templates.csv")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("write csv: %v", err)
				}
			}
			if _, err := LoadTemplateCSV(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
