package image

import (
	"fmt"
	"strings"
)

// LayoutBarWidth is the width of the layout bar in characters.
const LayoutBarWidth = 60

// FormatLayout renders an ASCII bar showing where each partition sits within
// the image, scaled so the bar ends at the highest partition end sector.
// Each partition's slice is filled with its number modulo 10, with at least
// one cell so tiny partitions stay visible. Pure formatting, no I/O.
func FormatLayout(partitions []Partition, sectorSize uint64) string {
	if len(partitions) == 0 {
		return "No partitions found to display."
	}

	var maxEnd uint64
	for _, p := range partitions {
		if p.End > maxEnd {
			maxEnd = p.End
		}
	}
	totalSectors := maxEnd + 1

	bar := []byte(strings.Repeat(" ", LayoutBarWidth))
	for _, p := range partitions {
		left := int(p.Start * LayoutBarWidth / totalSectors)
		right := int((p.End + 1) * LayoutBarWidth / totalSectors)
		if right <= left {
			right = left + 1
		}
		for i := left; i < right && i < LayoutBarWidth; i++ {
			bar[i] = byte('0' + p.Number%10)
		}
	}

	legend := make([]string, 0, len(partitions))
	for _, p := range partitions {
		legend = append(legend, fmt.Sprintf("%d: %dMB", p.Number, p.Sectors()*sectorSize/(1024*1024)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Disk image partition layout (each character ~%.0f%% of image):\n", 100.0/LayoutBarWidth)
	fmt.Fprintf(&b, "|%s|\n", bar)
	fmt.Fprintf(&b, "Legend: %s", strings.Join(legend, "  "))
	return b.String()
}
