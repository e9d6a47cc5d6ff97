// Package plan maps valid accounts onto destination addresses.
package plan

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/model"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateTarget checks the "0x" + 40 hex format. Checksum casing is not enforced.
func ValidateTarget(raw string) (common.Address, error) {
	target := strings.TrimSpace(raw)
	if !addressPattern.MatchString(target) {
		return common.Address{}, errors.Wrapf(model.ErrInvalidTargetAddress, "%q", target)
	}

	return common.HexToAddress(target), nil
}

// Targets builds the target set for mode. Many-to-one uses single, many-to-many uses list.
func Targets(mode model.CollectionMode, single string, list []string) (model.TargetSet, error) {
	switch mode {
	case model.ManyToOne:
		target, err := ValidateTarget(single)
		if err != nil {
			return nil, err
		}

		return model.TargetSet{target}, nil
	case model.ManyToMany:
		if len(list) == 0 {
			return nil, model.ErrEmptyTargetSet
		}

		targets := make(model.TargetSet, 0, len(list))
		for i, raw := range list {
			target, err := ValidateTarget(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "target line %d", i+1)
			}

			targets = append(targets, target)
		}

		return targets, nil
	default:
		return nil, errors.Errorf("unknown collection mode %q", mode)
	}
}

// Build maps every valid account onto a target. Many-to-many assigns
// targets round-robin: account i goes to targets[i mod len(targets)].
// A source address may appear only once in a plan.
func Build(valid []model.Account, targets model.TargetSet, mode model.CollectionMode, settings amount.Settings) ([]model.PlanItem, error) {
	if len(valid) == 0 {
		return nil, model.ErrNoValidAccounts
	}

	if len(targets) == 0 {
		if mode == model.ManyToOne {
			return nil, errors.Wrap(model.ErrInvalidTargetAddress, "no target address")
		}

		return nil, model.ErrEmptyTargetSet
	}

	firstLine := make(map[common.Address]int, len(valid))
	items := make([]model.PlanItem, 0, len(valid))

	for i, acc := range valid {
		if line, ok := firstLine[acc.Address]; ok {
			return nil, errors.Wrapf(model.ErrDuplicateKey, "line %d repeats line %d", acc.Line, line)
		}

		firstLine[acc.Address] = acc.Line

		target := targets[0]
		if mode == model.ManyToMany {
			target = targets[i%len(targets)]
		}

		items = append(items, model.PlanItem{
			Index:       i,
			SourceIndex: i,
			Target:      target,
			Policy:      settings.PolicyFor(acc),
		})
	}

	return items, nil
}
