package syncer

import "testing"

func TestShardCodesExactMultiple(t *testing.T) {
	codes := make([]int, 100)
	for i := range codes {
		codes[i] = i
	}
	groups := ShardCodes(codes, 5)
	if len(groups) != 5 {
		t.Fatalf("groups = %d, want 5", len(groups))
	}
	for _, g := range groups {
		if len(g) != 20 {
			t.Fatalf("group len = %d, want 20", len(g))
		}
	}
}

func TestShardCodesDropsShortRemainder(t *testing.T) {
	codes := make([]int, 103)
	for i := range codes {
		codes[i] = i
	}
	groups := ShardCodes(codes, 5)
	if len(groups) != 5 {
		t.Fatalf("groups = %d, want 5 (remainder of 3 < group size 20 must be dropped)", len(groups))
	}
}

func TestShardCodesScenarioE(t *testing.T) {
	codes := make([]int, 23)
	for i := range codes {
		codes[i] = i
	}
	groups := ShardCodes(codes, 5)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != 20 {
		t.Fatalf("total sharded codes = %d, want 20", total)
	}
	if len(groups) != 5 {
		t.Fatalf("groups = %d, want 5", len(groups))
	}
}

func TestShardCodesKeepsLongEnoughRemainder(t *testing.T) {
	codes := make([]int, 12) // split_count=5 -> groupLen=2, strideEnd=10, remainder=2 (>=2, kept)
	for i := range codes {
		codes[i] = i
	}
	groups := ShardCodes(codes, 5)
	if len(groups) != 6 {
		t.Fatalf("groups = %d, want 6 (5 full + 1 remainder of exactly group size)", len(groups))
	}
}
