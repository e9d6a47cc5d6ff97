// Package amount converts between decimal coin amounts and base units and
// resolves the transfer value of each plan item.
package amount

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// Decimals is the number of fractional digits of the native coin.
const Decimals = 18

const gweiDecimals = 9

var decimalPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// ParseDecimal converts a non-negative decimal string like "0.05" to base units.
func ParseDecimal(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return nil, errors.Wrapf(model.ErrMalformedAmount, "%q is not a non-negative decimal", s)
	}

	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		if frac := strings.TrimRight(s[dot+1:], "0"); len(frac) > Decimals {
			return nil, errors.Wrapf(model.ErrAmountTooPrecise, "%q", s)
		}
	}

	normalized := s
	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}
	normalized = strings.TrimSuffix(normalized, ".")

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return nil, errors.Wrapf(model.ErrMalformedAmount, "%q: %v", s, err)
	}

	return d.Shift(Decimals).BigInt(), nil
}

// FormatDecimal renders base units as a decimal string without trailing zeros.
func FormatDecimal(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	return decimal.NewFromBigInt(wei, -Decimals).String()
}

// FormatGwei renders base units in gwei, used for gas prices.
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	return decimal.NewFromBigInt(wei, -gweiDecimals).String()
}
