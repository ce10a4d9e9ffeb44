package engine

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percentOf returns pct percent of amount, rounded to cents.  All fee
// and premium arithmetic goes through this one function so rounding is
// applied uniformly.
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
    return amount.Mul(pct).Div(hundred).Round(2)
}

// buyerPremium computes the premium the buyer pays on top of the given
// price for an auction with the given premium percentage.
func buyerPremium(price, premiumPct decimal.Decimal) decimal.Decimal {
    return percentOf(price, premiumPct)
}

// totalCost is the amount locked from a bidder's wallet for a bid:
// the bid price plus the buyer premium.
func totalCost(price, premiumPct decimal.Decimal) decimal.Decimal {
    return price.Add(buyerPremium(price, premiumPct))
}
