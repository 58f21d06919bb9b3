// Package pricing computes booking prices and membership discounts. All
// functions are pure so the discount table can be verified in isolation.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"arcadia/internal/models"
	"arcadia/internal/timeslot"
)

var hundred = decimal.NewFromInt(100)

// DiscountPercent returns the discount for a membership tier. Unknown tiers
// earn nothing.
func DiscountPercent(tier string) decimal.Decimal {
	switch tier {
	case models.TierBronze:
		return decimal.NewFromInt(5)
	case models.TierSilver:
		return decimal.NewFromInt(10)
	case models.TierGold:
		return decimal.NewFromInt(15)
	case models.TierPlatinum:
		return decimal.NewFromInt(20)
	default:
		return decimal.Zero
	}
}

// ApplyDiscount reduces base by the card's tier percentage when the card is
// valid at the given instant. The result is rounded to 2 decimal places,
// half up. A nil or invalid card leaves the price unchanged.
func ApplyDiscount(base decimal.Decimal, card *models.MembershipCard, now time.Time) decimal.Decimal {
	if card == nil || !card.IsValid(now) {
		return base.Round(2)
	}
	pct := DiscountPercent(card.Tier)
	discount := base.Mul(pct).Div(hundred)
	return base.Sub(discount).Round(2)
}

// BookingPrice computes duration in hours (2dp) and the discounted total for
// a slot at the station's hourly rate.
func BookingPrice(rate decimal.Decimal, start, end timeslot.TimeOfDay, card *models.MembershipCard, now time.Time) (hours, total decimal.Decimal) {
	minutes := decimal.NewFromInt(int64(end - start))
	hours = minutes.Div(decimal.NewFromInt(60)).Round(2)
	total = ApplyDiscount(rate.Mul(hours), card, now)
	return hours, total
}
