package image

import (
	"strings"
	"testing"
)

func TestFormatLayoutNoPartitions(t *testing.T) {
	got := FormatLayout(nil, 512)
	if !strings.Contains(got, "No partitions") {
		t.Errorf("FormatLayout(nil) = %q, want a no-partitions message", got)
	}
}

func TestFormatLayoutSinglePartitionFillsBar(t *testing.T) {
	parts := []Partition{{Number: 1, Start: 0, End: 2047999}}
	got := FormatLayout(parts, 512)

	wantBar := "|" + strings.Repeat("1", LayoutBarWidth) + "|"
	if !strings.Contains(got, wantBar) {
		t.Errorf("bar not fully filled with partition digit:\n%s", got)
	}
	// 2048000 sectors * 512 bytes = 1000 MiB
	if !strings.Contains(got, "1: 1000MB") {
		t.Errorf("legend missing partition size:\n%s", got)
	}
}

func TestFormatLayoutTwoPartitions(t *testing.T) {
	// First partition covers the first quarter, second the rest.
	parts := []Partition{
		{Number: 1, Start: 0, End: 24999},
		{Number: 2, Start: 25000, End: 99999},
	}
	got := FormatLayout(parts, 512)

	bar := got[strings.Index(got, "|")+1:]
	bar = bar[:strings.Index(bar, "|")]
	if len(bar) != LayoutBarWidth {
		t.Fatalf("bar width = %d, want %d", len(bar), LayoutBarWidth)
	}
	if bar[0] != '1' || bar[LayoutBarWidth-1] != '2' {
		t.Errorf("bar edges = %c..%c, want 1..2", bar[0], bar[LayoutBarWidth-1])
	}
	if strings.Count(bar, "1") != LayoutBarWidth/4 {
		t.Errorf("partition 1 fills %d cells, want %d", strings.Count(bar, "1"), LayoutBarWidth/4)
	}
}

func TestFormatLayoutTinyPartitionStaysVisible(t *testing.T) {
	// A ten-sector partition rounds to zero cells; it still gets one.
	parts := []Partition{
		{Number: 2, Start: 10, End: 9999999},
		{Number: 1, Start: 0, End: 9},
	}
	got := FormatLayout(parts, 512)

	bar := got[strings.Index(got, "|")+1:]
	bar = bar[:strings.Index(bar, "|")]
	if bar[0] != '1' {
		t.Errorf("bar[0] = %c, want 1 (tiny partition vanished):\n%s", bar[0], got)
	}
}

func TestFormatLayoutDigitWrapsAtTen(t *testing.T) {
	parts := []Partition{{Number: 12, Start: 0, End: 999}}
	got := FormatLayout(parts, 512)
	wantBar := "|" + strings.Repeat("2", LayoutBarWidth) + "|"
	if !strings.Contains(got, wantBar) {
		t.Errorf("partition 12 should render as digit 2:\n%s", got)
	}
}
