package model

import "testing"

func TestToStdCode(t *testing.T) {
	cases := []struct {
		typ  MarketType
		code string
		want string
	}{
		{MarketTypeStock, "002805", "sz002805"},
		{MarketTypeStock, "600000", "sh600000"},
		{MarketTypeStock, "300750", "sz300750"},
		{MarketTypeStock, "430047", "bj430047"},
		{MarketTypeBond, "128038", "sz128038"},
		{MarketTypeBond, "113547", "sh113547"},
		{MarketTypeFund, "159915", "sz159915"},
		{MarketTypeFund, "510300", "sh510300"},
		{MarketTypeStock, "sh600000", "sh600000"}, // already-prefixed: unchanged
	}

	for _, c := range cases {
		if got := ToStdCode(c.typ, c.code); got != c.want {
			t.Errorf("ToStdCode(%v, %q) = %q, want %q", c.typ, c.code, got, c.want)
		}
	}
}

func TestToStdCodeIdempotent(t *testing.T) {
	once := ToStdCode(MarketTypeStock, "002805")
	twice := ToStdCode(MarketTypeStock, once)
	if once != twice {
		t.Errorf("ToStdCode not idempotent: %q -> %q", once, twice)
	}
}
