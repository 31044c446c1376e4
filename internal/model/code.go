package model

import "strings"

// ToStdCode normalizes a raw 6-digit code into its market-prefixed form. A
// code that is not 6 digits long is assumed already normalized (or foreign)
// and is returned unchanged, which makes the function idempotent on already-
// prefixed input.
//
//	ToStdCode(MarketTypeStock, "002805") == "sz002805"
func ToStdCode(typ MarketType, code string) string {
	if len(code) != 6 {
		return code
	}

	switch typ {
	case MarketTypeBond:
		if strings.HasPrefix(code, "12") {
			return "sz" + code
		}
		return "sh" + code
	case MarketTypeFund:
		if strings.HasPrefix(code, "15") {
			return "sz" + code
		}
		return "sh" + code
	case MarketTypeStock:
		switch code[0] {
		case '6':
			return "sh" + code
		case '0', '3':
			return "sz" + code
		default:
			return "bj" + code
		}
	default:
		return code
	}
}
