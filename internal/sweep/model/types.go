package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NotAvailable is used for the hash and explorer link of transfers that were never broadcast.
const NotAvailable = "N/A"

// CollectionMode decides how valid accounts are mapped onto targets.
type CollectionMode string

const (
	ManyToOne  CollectionMode = "many-to-one"
	ManyToMany CollectionMode = "many-to-many"
)

// AmountMode is the global amount policy for lines without an explicit amount.
type AmountMode string

const (
	AmountAll   AmountMode = "ALL"
	AmountFixed AmountMode = "FIXED"
)

// Account is one parsed input line after key validation and address derivation.
type Account struct {
	Line          int            // 1-based position among non-blank input lines
	PrivateKeyHex string         // normalized "0x" + 64 hex chars when Valid
	Address       common.Address // zero value unless Valid
	// ExplicitAmount is the raw per-line amount token, empty when the line carries none.
	ExplicitAmount    string
	ExplicitAmountWei *big.Int
	Valid             bool
	ErrorKind         ErrorKind
	Error             string
}

// HasExplicitAmount reports whether the input line carried its own amount.
func (a Account) HasExplicitAmount() bool {
	return a.ExplicitAmountWei != nil
}

// MaskedKey returns the first ten characters of the key followed by an ellipsis.
func (a Account) MaskedKey() string {
	const visible = 10
	if len(a.PrivateKeyHex) <= visible {
		return a.PrivateKeyHex + "..."
	}

	return a.PrivateKeyHex[:visible] + "..."
}

// TargetSet is the ordered list of validated destination addresses.
type TargetSet []common.Address

// PolicyKind selects how a plan item's amount is resolved.
type PolicyKind int

const (
	PolicyAllMinusFee PolicyKind = iota
	PolicyFixed
	PolicyPerLineExplicit
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyAllMinusFee:
		return "AllMinusFee"
	case PolicyFixed:
		return "Fixed"
	case PolicyPerLineExplicit:
		return "PerLineExplicit"
	default:
		return "Unknown"
	}
}

// AmountPolicy carries the policy kind and, for Fixed and PerLineExplicit, the value in base units.
type AmountPolicy struct {
	Kind  PolicyKind
	Value *big.Int
}

// PlanItem is one source to target transfer. SourceIndex indexes the valid accounts list.
type PlanItem struct {
	Index       int
	SourceIndex int
	Target      common.Address
	Policy      AmountPolicy
}

// Status is the final state of a plan item.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// TransactionResult is the outcome of exactly one plan item.
type TransactionResult struct {
	PlanIndex     int
	SourceAddress string
	TargetAddress string
	Amount        string // decimal, "0" when the amount was never resolved
	TxHash        string
	Status        Status
	ErrorKind     ErrorKind
	ErrorMessage  string
	ExplorerURL   string
}

// Succeeded reports whether the transfer was accepted by the network.
func (r TransactionResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Receipt is the subset of a transaction receipt the sweeper inspects.
type Receipt struct {
	TxHash      common.Hash
	Status      uint64
	BlockNumber *big.Int
}

// ReceiptStatusSuccessful mirrors the EVM receipt status for a successful execution.
const ReceiptStatusSuccessful = 1

// Summary is a point-in-time view of a sweep.
type Summary struct {
	Parsed    int `json:"parsed"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Planned   int `json:"planned"`
	InFlight  int `json:"inFlight"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
}
