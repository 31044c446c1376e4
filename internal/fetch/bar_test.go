package fetch

import (
	"testing"

	"hiqsync/internal/model"
)

func TestReconcileAdjustFactorEqualLength(t *testing.T) {
	nfq := []model.Bar{{Close: 10, HfqFactor: 1}, {Close: 20, HfqFactor: 1}}
	hfq := []model.Bar{{Close: 15, HfqFactor: 1}, {Close: 25, HfqFactor: 1}}

	out := reconcileAdjustFactor(nfq, hfq)
	if out[0].HfqFactor != 1.5 {
		t.Errorf("HfqFactor[0] = %v, want 1.5", out[0].HfqFactor)
	}
	if out[1].HfqFactor != 1.25 {
		t.Errorf("HfqFactor[1] = %v, want 1.25", out[1].HfqFactor)
	}
}

func TestReconcileAdjustFactorMismatchedLengthDefaultsToOne(t *testing.T) {
	nfq := []model.Bar{{Close: 10, HfqFactor: 1}, {Close: 20, HfqFactor: 1}}
	hfq := []model.Bar{{Close: 15, HfqFactor: 1}}

	out := reconcileAdjustFactor(nfq, hfq)
	for i, b := range out {
		if b.HfqFactor != 1.0 {
			t.Errorf("HfqFactor[%d] = %v, want default 1.0 on length mismatch", i, b.HfqFactor)
		}
	}
}

func TestSkipSeamDuplicates(t *testing.T) {
	bars := []model.Bar{
		{TradeDate: 20240603},
		{TradeDate: 20240604},
		{TradeDate: 20240605},
	}
	out := skipSeamDuplicates(bars, 20240603)
	if len(out) != 2 || out[0].TradeDate != 20240604 {
		t.Fatalf("skipSeamDuplicates = %+v, want [20240604, 20240605]", out)
	}
}

func TestSkipSeamDuplicatesNoMatch(t *testing.T) {
	bars := []model.Bar{{TradeDate: 20240604}, {TradeDate: 20240605}}
	out := skipSeamDuplicates(bars, 20240603)
	if len(out) != 2 {
		t.Fatalf("skipSeamDuplicates should be a no-op when no leading row matches, got %+v", out)
	}
}
