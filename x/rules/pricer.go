package rules

import (
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/openst/openst-weave/errors"
)

// MaxDecimals is the highest precision of prices and conversion rates.
const MaxDecimals = 18

var isCurrencyCode = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

func validateCurrency(code string) error {
	if !isCurrencyCode(code) {
		return errors.Wrapf(errors.ErrInput, "currency code %q", code)
	}
	return nil
}

func validateDecimals(n uint32) error {
	if n > MaxDecimals {
		return errors.Wrapf(errors.ErrInput, "%d decimals", n)
	}
	return nil
}

// InRange returns true if the intended price point differs from the
// current one by no more than the margin.
func InRange(intended, current, margin uint64) bool {
	if intended > current {
		return intended-current <= margin
	}
	return current-intended <= margin
}

// ConvertToTokens converts an amount of a quote currency into tokens. The
// amount and the price have the same precision, so that amount/price is in
// units of the base currency.
//
//	tokens = amount * rate * 10^tokenDecimals / (price * 10^rateDecimals)
func (r *PricerRule) ConvertToTokens(amount, price uint64) (uint64, error) {
	if price == 0 {
		return 0, errors.Wrap(errors.ErrInput, "zero price")
	}
	num := new(big.Int).SetUint64(amount)
	num.Mul(num, new(big.Int).SetUint64(r.ConversionRate))
	num.Mul(num, math.BigPow(10, int64(r.TokenDecimals)))

	den := new(big.Int).SetUint64(price)
	den.Mul(den, math.BigPow(10, int64(r.ConversionRateDecimals)))

	tokens := num.Quo(num, den)
	if !tokens.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%s tokens", tokens)
	}
	return tokens.Uint64(), nil
}
