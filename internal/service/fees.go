package service

import "math"

// FeePolicy holds the flat tax and fee rates applied to every booking.
type FeePolicy struct {
	GSTPercent        int64
	ServiceFeePercent int64
}

// DefaultFeePolicy is 18% GST and a 2% service fee.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{GSTPercent: 18, ServiceFeePercent: 2}
}

// Amounts is the price breakdown stored on a booking.
type Amounts struct {
	Base       int64
	GST        int64
	ServiceFee int64
	Total      int64
}

// Quote prices qty tickets at price each.  Percentages round half up to
// the smallest currency unit.  Orders whose total would not fit in an
// int64 fail with ErrInvalidInput.
func (p FeePolicy) Quote(price int64, qty int) (Amounts, error) {
	if price < 0 || qty <= 0 {
		return Amounts{}, invalidf("price %d and quantity %d cannot be quoted", price, qty)
	}
	if price > math.MaxInt64/int64(qty) {
		return Amounts{}, invalidf("order amount is too large")
	}
	base := price * int64(qty)
	// base*rate bounds every intermediate product in percentOf and the total.
	if rate := 100 + p.GSTPercent + p.ServiceFeePercent; rate > 0 && base > (math.MaxInt64-100)/rate {
		return Amounts{}, invalidf("order amount is too large")
	}
	gst := percentOf(base, p.GSTPercent)
	fee := percentOf(base, p.ServiceFeePercent)
	return Amounts{Base: base, GST: gst, ServiceFee: fee, Total: base + gst + fee}, nil
}

func percentOf(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
