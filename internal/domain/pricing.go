package domain

// VIPSurcharge is the flat amount added on top of a showing's base price for
// a vip-class seat, in the smallest whole currency unit.
const VIPSurcharge int64 = 20000

type PriceBreakdown struct {
	RegularCount     int   `json:"regular_count"`
	RegularUnitPrice int64 `json:"regular_unit_price"`
	RegularTotal     int64 `json:"regular_total"`
	VipCount         int   `json:"vip_count"`
	VipUnitPrice     int64 `json:"vip_unit_price"`
	VipTotal         int64 `json:"vip_total"`
	GrandTotal       int64 `json:"grand_total"`
}

// UnitPrice maps a seat's class and the showing's base price to the price of
// that single seat. Pure; prices are non-negative integers.
func UnitPrice(seat Seat, showing Showing) int64 {
	if seat.Class == SeatVIP {
		return showing.BasePrice + VIPSurcharge
	}

	return showing.BasePrice
}

// ComputeBreakdown reduces a selection to per-class counts and totals.
func ComputeBreakdown(selection Selection, showing Showing) PriceBreakdown {
	breakdown := PriceBreakdown{
		RegularUnitPrice: showing.BasePrice,
		VipUnitPrice:     showing.BasePrice + VIPSurcharge,
	}

	for _, seat := range selection.Seats {
		switch seat.Class {
		case SeatVIP:
			breakdown.VipCount++
			breakdown.VipTotal += breakdown.VipUnitPrice
		default:
			breakdown.RegularCount++
			breakdown.RegularTotal += breakdown.RegularUnitPrice
		}
	}

	breakdown.GrandTotal = breakdown.RegularTotal + breakdown.VipTotal

	return breakdown
}
