package image

import "testing"

func TestPlanShrink(t *testing.T) {
	// Hand-computed from a real Raspberry Pi image: 251648 minimum blocks of
	// 4096 bytes plus a 100 MiB margin (25600 blocks) gives 277248 blocks =
	// 1135607808 bytes = 2217984 sectors of 512 bytes. Starting at sector
	// 2048 the shrunk partition ends at sector 2220031.
	plan, err := PlanShrink(251648, 4096, 100*1024*1024, 512, 2048, 62521343)
	if err != nil {
		t.Fatalf("PlanShrink() error = %v", err)
	}

	if plan.TargetBlocks != 277248 {
		t.Errorf("TargetBlocks = %d, want 277248", plan.TargetBlocks)
	}
	if plan.TargetBytes != 1135607808 {
		t.Errorf("TargetBytes = %d, want 1135607808", plan.TargetBytes)
	}
	if plan.TargetSectors != 2217984 {
		t.Errorf("TargetSectors = %d, want 2217984", plan.TargetSectors)
	}
	if plan.NewEndSector != 2220031 {
		t.Errorf("NewEndSector = %d, want 2220031", plan.NewEndSector)
	}
	if !plan.ShrinkNeeded {
		t.Error("ShrinkNeeded = false, want true")
	}
}

func TestPlanShrinkMarginRoundsUp(t *testing.T) {
	// 1 byte of margin still costs a whole block.
	plan, err := PlanShrink(1000, 4096, 1, 512, 2048, 1000000)
	if err != nil {
		t.Fatalf("PlanShrink() error = %v", err)
	}
	if plan.TargetBlocks != 1001 {
		t.Errorf("TargetBlocks = %d, want 1001", plan.TargetBlocks)
	}
}

func TestPlanShrinkNeededBoundary(t *testing.T) {
	// 1000 blocks of 4096 bytes with no margin is 4096000 bytes = 8000
	// sectors of 512 bytes. The one-sector tolerance means a partition one
	// sector over target is left alone and two sectors over is shrunk.
	const start = 2048

	tests := []struct {
		name string
		end  uint64
		want bool
	}{
		{"exactly at target", start + 8000 - 1, false},
		{"one sector over", start + 8001 - 1, false},
		{"two sectors over", start + 8002 - 1, true},
		{"well under target", start + 4000 - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanShrink(1000, 4096, 0, 512, start, tt.end)
			if err != nil {
				t.Fatalf("PlanShrink() error = %v", err)
			}
			if plan.ShrinkNeeded != tt.want {
				t.Errorf("ShrinkNeeded = %v, want %v", plan.ShrinkNeeded, tt.want)
			}
		})
	}
}

func TestPlanShrinkTargetNeverBelowMinimum(t *testing.T) {
	for _, margin := range []uint64{0, 1, 4096, 100 * 1024 * 1024} {
		plan, err := PlanShrink(251648, 4096, margin, 512, 2048, 62521343)
		if err != nil {
			t.Fatalf("PlanShrink(margin=%d) error = %v", margin, err)
		}
		if plan.TargetBlocks < 251648 {
			t.Errorf("margin %d: TargetBlocks = %d, below minimum 251648", margin, plan.TargetBlocks)
		}
	}
}

func TestPlanShrinkRejectsDegenerateInput(t *testing.T) {
	tests := []struct {
		name                                                 string
		minBlocks, blockSize, margin, sectorSize, start, end uint64
	}{
		{"zero block size", 1000, 0, 0, 512, 2048, 10000},
		{"zero sector size", 1000, 4096, 0, 0, 2048, 10000},
		{"end before start", 1000, 4096, 0, 512, 10000, 2048},
		{"zero target sectors", 0, 4096, 0, 512, 2048, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlanShrink(tt.minBlocks, tt.blockSize, tt.margin, tt.sectorSize, tt.start, tt.end); err == nil {
				t.Error("PlanShrink() error = nil, want error")
			}
		})
	}
}
