package amount

import (
	"math/big"

	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// DefaultGasLimit is the gas used by a plain value transfer.
const DefaultGasLimit uint64 = 21000

// Settings is the global amount policy of a sweep.
type Settings struct {
	Mode  model.AmountMode
	Fixed *big.Int
}

// NewSettings validates the mode and, for FIXED, parses the fixed amount.
func NewSettings(mode model.AmountMode, fixed string) (Settings, error) {
	switch mode {
	case model.AmountAll:
		return Settings{Mode: mode}, nil
	case model.AmountFixed:
		value, err := ParseDecimal(fixed)
		if err != nil {
			return Settings{}, errors.Wrap(err, "invalid fixed amount")
		}

		if value.Sign() == 0 {
			return Settings{}, errors.Wrap(model.ErrZeroTransferAmount, "invalid fixed amount")
		}

		return Settings{Mode: mode, Fixed: value}, nil
	default:
		return Settings{}, errors.Errorf("unknown amount mode %q", mode)
	}
}

// PolicyFor picks the amount policy of an account. A per-line amount always wins.
func (s Settings) PolicyFor(acc model.Account) model.AmountPolicy {
	if acc.HasExplicitAmount() {
		return model.AmountPolicy{Kind: model.PolicyPerLineExplicit, Value: new(big.Int).Set(acc.ExplicitAmountWei)}
	}

	if s.Mode == model.AmountFixed && s.Fixed != nil {
		return model.AmountPolicy{Kind: model.PolicyFixed, Value: new(big.Int).Set(s.Fixed)}
	}

	return model.AmountPolicy{Kind: model.PolicyAllMinusFee}
}

// Fee returns gasPrice * gasLimit.
func Fee(gasPrice *big.Int, gasLimit uint64) *big.Int {
	return new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
}

// Resolve computes the value to transfer. Fixed and explicit amounts are not
// checked against the balance, the network rejects them at broadcast.
func Resolve(policy model.AmountPolicy, balance, gasPrice *big.Int, gasLimit uint64) (*big.Int, error) {
	switch policy.Kind {
	case model.PolicyFixed, model.PolicyPerLineExplicit:
		if policy.Value == nil || policy.Value.Sign() <= 0 {
			return nil, model.ErrZeroTransferAmount
		}

		return new(big.Int).Set(policy.Value), nil
	case model.PolicyAllMinusFee:
		if balance == nil || gasPrice == nil {
			return nil, errors.New("balance and gas price are required")
		}

		value := new(big.Int).Sub(balance, Fee(gasPrice, gasLimit))
		if value.Sign() <= 0 {
			return nil, model.ErrInsufficientBalance
		}

		return value, nil
	default:
		return nil, errors.Errorf("unknown amount policy %d", policy.Kind)
	}
}

// NeedsQuote reports whether resolving the policy requires balance and gas price.
func NeedsQuote(policy model.AmountPolicy) bool {
	return policy.Kind == model.PolicyAllMinusFee
}
