package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcadia/internal/models"
	"arcadia/internal/timeslot"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validCard(tier string) *models.MembershipCard {
	return &models.MembershipCard{
		Tier:       tier,
		IsActive:   true,
		IssueDate:  now.AddDate(-1, 0, 0),
		ExpiryDate: now.AddDate(1, 0, 0),
	}
}

func TestDiscountPercentTable(t *testing.T) {
	cases := map[string]int64{
		models.TierBronze:   5,
		models.TierSilver:   10,
		models.TierGold:     15,
		models.TierPlatinum: 20,
		"":                  0,
		"DIAMOND":           0,
	}
	for tier, want := range cases {
		assert.True(t, DiscountPercent(tier).Equal(decimal.NewFromInt(want)), "tier %q", tier)
	}
}

func TestApplyDiscount(t *testing.T) {
	base := decimal.NewFromInt(100)

	assert.Equal(t, "85", ApplyDiscount(base, validCard(models.TierGold), now).String())
	assert.Equal(t, "100", ApplyDiscount(base, nil, now).String())
	assert.Equal(t, "95", ApplyDiscount(base, validCard(models.TierBronze), now).String())
	assert.Equal(t, "80", ApplyDiscount(base, validCard(models.TierPlatinum), now).String())
}

func TestApplyDiscountInvalidCard(t *testing.T) {
	base := decimal.NewFromInt(100)

	expired := validCard(models.TierGold)
	expired.ExpiryDate = now.AddDate(0, 0, -1)
	assert.Equal(t, "100", ApplyDiscount(base, expired, now).String())

	inactive := validCard(models.TierGold)
	inactive.IsActive = false
	assert.Equal(t, "100", ApplyDiscount(base, inactive, now).String())

	// Expiry day itself still counts as valid
	expiresToday := validCard(models.TierGold)
	expiresToday.ExpiryDate = now
	assert.Equal(t, "85", ApplyDiscount(base, expiresToday, now).String())
}

func TestApplyDiscountRounding(t *testing.T) {
	// 5% off 10.01 = 9.5095 -> 9.51 (half up)
	got := ApplyDiscount(decimal.RequireFromString("10.01"), validCard(models.TierBronze), now)
	assert.Equal(t, "9.51", got.String())

	// 15% off 33.33 = 28.3305 -> 28.33
	got = ApplyDiscount(decimal.RequireFromString("33.33"), validCard(models.TierGold), now)
	assert.Equal(t, "28.33", got.String())
}

func TestBookingPrice(t *testing.T) {
	start, err := timeslot.ParseTime("09:00")
	require.NoError(t, err)
	end, err := timeslot.ParseTime("11:00")
	require.NoError(t, err)

	rate := decimal.NewFromInt(2000)

	hours, total := BookingPrice(rate, start, end, nil, now)
	assert.Equal(t, "2", hours.String())
	assert.Equal(t, "4000", total.String())

	_, discounted := BookingPrice(rate, start, end, validCard(models.TierGold), now)
	assert.Equal(t, "3400", discounted.String())
}

func TestBookingPriceFractionalHours(t *testing.T) {
	start, _ := timeslot.ParseTime("10:00")
	end, _ := timeslot.ParseTime("11:30")

	hours, total := BookingPrice(decimal.NewFromInt(1000), start, end, nil, now)
	assert.Equal(t, "1.5", hours.String())
	assert.Equal(t, "1500", total.String())
}
