package system

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ParseError indicates that an expected field was absent from a tool's
// output. This is always a hard error: the numbers extracted here drive
// destructive operations and must never fall back to silent defaults.
type ParseError struct {
	Tool  string
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not find %s in %s output", e.Field, e.Tool)
}

// PartitionEntry is one row of a partition table listing.
type PartitionEntry struct {
	Number int
	Start  uint64 // first sector
	End    uint64 // last sector, inclusive
}

// ParsePartitionTable extracts partition rows from fdisk -l output for the
// given loop device. A row looks like:
//
//	/dev/loop0p2   *       2048  62521343 62519296 29.8G 83 Linux
//
// The pattern anchors on the whitespace after the partition number so that
// partition 1 never matches a row for partition 11.
func ParsePartitionTable(output, device string) []PartitionEntry {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(device) + `p(\d+)\s+\*?\s*(\d+)\s+(\d+)`)

	var entries []PartitionEntry
	for _, m := range re.FindAllStringSubmatch(output, -1) {
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		start, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(m[3], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, PartitionEntry{Number: num, Start: start, End: end})
	}
	return entries
}

// ParseLsblkPartitions extracts partition numbers from lsblk -ln -o NAME,TYPE
// output for the given loop device. Lines look like:
//
//	loop0        loop
//	loop0p1      part
//	loop0p2      part
func ParseLsblkPartitions(output, device string) []int {
	base := filepath.Base(device) + "p"

	var numbers []int
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		name, typ := fields[0], fields[1]
		if typ != "part" || !strings.HasPrefix(name, base) {
			continue
		}
		num, err := strconv.Atoi(name[len(base):])
		if err != nil {
			continue
		}
		numbers = append(numbers, num)
	}
	return numbers
}

var minimumBlocksRe = regexp.MustCompile(`Estimated minimum size of the filesystem: (\d+)`)

// ParseMinimumBlocks extracts the estimated minimum filesystem size, in
// filesystem blocks, from resize2fs -P output.
func ParseMinimumBlocks(output string) (uint64, error) {
	m := minimumBlocksRe.FindStringSubmatch(output)
	if m == nil {
		return 0, &ParseError{Tool: "resize2fs", Field: "estimated minimum filesystem size"}
	}
	return strconv.ParseUint(m[1], 10, 64)
}

var blockSizeRe = regexp.MustCompile(`Block size:\s*(\d+)`)

// ParseBlockSize extracts the filesystem block size in bytes from
// tune2fs -l output.
func ParseBlockSize(output string) (uint64, error) {
	m := blockSizeRe.FindStringSubmatch(output)
	if m == nil {
		return 0, &ParseError{Tool: "tune2fs", Field: "block size"}
	}
	return strconv.ParseUint(m[1], 10, 64)
}

// ParseSectorSize extracts the logical sector size in bytes from
// blockdev --getss output, which is a bare integer.
func ParseSectorSize(output string) (uint64, error) {
	size, err := strconv.ParseUint(strings.TrimSpace(output), 10, 64)
	if err != nil || size == 0 {
		return 0, &ParseError{Tool: "blockdev", Field: "sector size"}
	}
	return size, nil
}

// FormatSize converts bytes to human-readable format
func FormatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}
