package executor

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github/chapool/go-sweeper/internal/sweep/model"
)

const explorerHashPlaceholder = "{hash}"

// ExplorerLink builds the explorer URL of txHash. A template containing {hash}
// is filled in, any other value is treated as a base URL.
func ExplorerLink(explorer string, txHash common.Hash) string {
	explorer = strings.TrimSpace(explorer)
	if explorer == "" {
		return model.NotAvailable
	}

	if strings.Contains(explorer, explorerHashPlaceholder) {
		return strings.ReplaceAll(explorer, explorerHashPlaceholder, txHash.Hex())
	}

	return strings.TrimRight(explorer, "/") + "/tx/" + txHash.Hex()
}
