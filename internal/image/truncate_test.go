package image

import "testing"

func TestComputeTruncateSize(t *testing.T) {
	tests := []struct {
		name                               string
		startSector, sectorSize, targetFSB uint64
		want                               uint64
	}{
		{"typical pi image", 2048, 512, 1135607808, 1136656384},
		{"partition at sector zero", 0, 512, 4096000, 4096000},
		{"4k sectors", 256, 4096, 1135607808, 1136656384},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTruncateSize(tt.startSector, tt.sectorSize, tt.targetFSB)
			if got != tt.want {
				t.Errorf("ComputeTruncateSize(%d, %d, %d) = %d, want %d",
					tt.startSector, tt.sectorSize, tt.targetFSB, got, tt.want)
			}
		})
	}
}
