package model

import "testing"

func TestBatchHasCapacity(t *testing.T) {
	b := &Batch{MaxSize: 20, CurrentSize: 19}
	if !b.HasCapacity() {
		t.Error("batch with one slot left should have capacity")
	}
	b.CurrentSize = 20
	if b.HasCapacity() {
		t.Error("full batch should not have capacity")
	}
}

func TestBatchCode(t *testing.T) {
	cases := []struct {
		campus, program, trade string
		number                 int
		want                   string
	}{
		{"ISB", "TEC", "WLD", 2, "ISB-TEC-WLD-B02"},
		{"KHI", "HSP", "ELC", 1, "KHI-HSP-ELC-B01"},
		{"LHR", "TEC", "PLM", 12, "LHR-TEC-PLM-B12"},
	}
	for _, c := range cases {
		if got := BatchCode(c.campus, c.program, c.trade, c.number); got != c.want {
			t.Errorf("BatchCode(%s,%s,%s,%d) = %q, want %q", c.campus, c.program, c.trade, c.number, got, c.want)
		}
	}
}

func TestAllocationNumber(t *testing.T) {
	if got := AllocationNumber("ISB", "TEC", "WLD", 1); got != "ISB-TEC-WLD-0001" {
		t.Errorf("AllocationNumber = %q, want ISB-TEC-WLD-0001", got)
	}
	if got := AllocationNumber("ISB", "TEC", "WLD", 437); got != "ISB-TEC-WLD-0437" {
		t.Errorf("AllocationNumber = %q, want ISB-TEC-WLD-0437", got)
	}
}
