package domain

import "github.com/shopspring/decimal"

// DiscountType selects how a discount value is interpreted
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount applies once to the net subtotal of all items
type Discount struct {
	Enabled bool
	Type    DiscountType
	Value   decimal.Decimal
}

// Totals holds the derived money figures of a quotation
type Totals struct {
	Net      decimal.Decimal
	Discount decimal.Decimal
	Grand    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// LineTotal returns quantity * unit price
func LineTotal(item Item) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// NetSubtotal sums the line totals of items
func NetSubtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum
}

// DiscountAmount computes the discount for a net subtotal.
// A fixed discount is returned as-is even when it exceeds net;
// clamping happens in GrandTotal.
func DiscountAmount(net decimal.Decimal, d Discount) decimal.Decimal {
	if !d.Enabled {
		return decimal.Zero
	}
	switch d.Type {
	case DiscountPercentage:
		return net.Mul(d.Value).Div(hundred)
	case DiscountFixed:
		return d.Value
	default:
		return decimal.Zero
	}
}

// GrandTotal returns net minus discount, never below zero
func GrandTotal(net, discount decimal.Decimal) decimal.Decimal {
	total := net.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ComputeTotals runs the full totals chain for items and a discount
func ComputeTotals(items []Item, d Discount) Totals {
	net := NetSubtotal(items)
	discount := DiscountAmount(net, d)
	return Totals{
		Net:      net,
		Discount: discount,
		Grand:    GrandTotal(net, discount),
	}
}
