package calculator

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
)

// Tier is a quick-pay plan code.
type Tier string

const (
	TierFlash    Tier = "FLASH"
	TierExpress  Tier = "EXPRESS"
	TierPriority Tier = "PRIORITY"
	TierPartner  Tier = "PARTNER"
	TierElite    Tier = "ELITE"
)

// TierTerms are the fee and payout speed of one tier.
type TierTerms struct {
	Tier        Tier
	FeePercent  decimal.Decimal
	PayoutSpeed string
	PayoutDelay time.Duration
}

const day = 24 * time.Hour

// tierTable is the fixed quick-pay fee schedule, fastest first.
var tierTable = []TierTerms{
	{Tier: TierFlash, FeePercent: decimal.RequireFromString("5.0"), PayoutSpeed: "same day", PayoutDelay: 0},
	{Tier: TierExpress, FeePercent: decimal.RequireFromString("3.5"), PayoutSpeed: "+3 days", PayoutDelay: 3 * day},
	{Tier: TierPriority, FeePercent: decimal.RequireFromString("2.0"), PayoutSpeed: "+7 days", PayoutDelay: 7 * day},
	{Tier: TierPartner, FeePercent: decimal.RequireFromString("1.5"), PayoutSpeed: "+7 days", PayoutDelay: 7 * day},
	{Tier: TierElite, FeePercent: decimal.Zero, PayoutSpeed: "+14 days", PayoutDelay: 14 * day},
}

var hundred = decimal.NewFromInt(100)

// Tiers returns a copy of the fee schedule.
func Tiers() []TierTerms {
	out := make([]TierTerms, len(tierTable))
	copy(out, tierTable)
	return out
}

// ParseTier resolves a tier code case-insensitively.
func ParseTier(code string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := lookupTier(t); !ok {
		return "", apperr.Validation("unknown quick pay tier: %q", code)
	}
	return t, nil
}

func lookupTier(t Tier) (TierTerms, bool) {
	for _, terms := range tierTable {
		if terms.Tier == t {
			return terms, true
		}
	}
	return TierTerms{}, false
}

// Quote is the result of pricing a quick-pay advance.
type Quote struct {
	Tier        Tier
	Gross       decimal.Decimal
	FeePercent  decimal.Decimal
	FeeAmount   decimal.Decimal
	NetAmount   decimal.Decimal
	PayoutSpeed string
	PayoutDelay time.Duration
}

// PayoutDate is when the advance is due if requested at t.
func (q Quote) PayoutDate(t time.Time) time.Time {
	return t.Add(q.PayoutDelay)
}

// QuoteQuickPay prices a quick-pay advance of grossAmount on the given tier.
//
//	fee = round(gross * pct / 100, 2)
//	net = gross - fee
func QuoteQuickPay(tier Tier, grossAmount decimal.Decimal) (Quote, error) {
	terms, ok := lookupTier(tier)
	if !ok {
		return Quote{}, apperr.Validation("unknown quick pay tier: %q", tier)
	}
	if !grossAmount.IsPositive() {
		return Quote{}, apperr.Validation("gross amount must be positive, got %s", grossAmount)
	}

	fee := grossAmount.Mul(terms.FeePercent).Div(hundred).Round(2)

	return Quote{
		Tier:        terms.Tier,
		Gross:       grossAmount,
		FeePercent:  terms.FeePercent,
		FeeAmount:   fee,
		NetAmount:   grossAmount.Sub(fee),
		PayoutSpeed: terms.PayoutSpeed,
		PayoutDelay: terms.PayoutDelay,
	}, nil
}
