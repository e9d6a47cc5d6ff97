// Package keys validates private keys and derives their addresses.
package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/input"
	"github/chapool/go-sweeper/internal/sweep/model"
)

const keyHexLength = 64

var keyPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// NormalizeKey returns the key as "0x" followed by 64 hex characters.
// A missing prefix is added; anything else that is not 32 bytes of hex is rejected.
func NormalizeKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if !strings.HasPrefix(key, "0x") && !strings.HasPrefix(key, "0X") && len(key) == keyHexLength {
		key = "0x" + key
	}

	if strings.HasPrefix(key, "0X") {
		key = "0x" + key[2:]
	}

	if !keyPattern.MatchString(key) {
		return "", model.ErrMalformedKey
	}

	return key, nil
}

// LoadKey parses a normalized key into an ECDSA private key.
func LoadKey(keyHex string) (*ecdsa.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(model.ErrMalformedKey, err.Error())
	}
	defer zero(raw)

	privateKey, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(model.ErrKeyDerivationFailure, err.Error())
	}

	return privateKey, nil
}

// AddressOf returns the address controlled by the private key.
func AddressOf(privateKey *ecdsa.PrivateKey) (common.Address, error) {
	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, errors.Wrap(model.ErrKeyDerivationFailure, "failed to cast public key to ECDSA")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA), nil
}

// DeriveAddress validates keyHex and returns its address.
func DeriveAddress(keyHex string) (common.Address, error) {
	privateKey, err := LoadKey(keyHex)
	if err != nil {
		return common.Address{}, err
	}
	defer Wipe(privateKey)

	return AddressOf(privateKey)
}

// Resolve validates one parsed record. Key and amount are checked before any
// derivation; an invalid record never produces an address.
func Resolve(rec input.Record) model.Account {
	acc := model.Account{Line: rec.Line}

	if rec.Shape == input.ShapeUnsupported {
		return invalid(acc, model.KindMalformedKey,
			errors.Wrapf(model.ErrUnsupportedLineFormat, "found %d fields", rec.Fields))
	}

	key, err := NormalizeKey(rec.Key)
	if err != nil {
		return invalid(acc, model.KindMalformedKey, err)
	}

	acc.PrivateKeyHex = key

	if rec.HasAmount() {
		acc.ExplicitAmount = rec.Amount

		value, err := amount.ParseDecimal(rec.Amount)
		if err != nil {
			return invalid(acc, model.KindMalformedAmount, err)
		}

		acc.ExplicitAmountWei = value
	}

	address, err := DeriveAddress(key)
	if err != nil {
		return invalid(acc, model.KindKeyDerivationFailure, err)
	}

	acc.Address = address
	acc.Valid = true

	return acc
}

// ResolveAll resolves every record, preserving order. A key that derives an
// address already seen on an earlier line is marked invalid, so one wallet is
// never swept by two concurrent transfers.
func ResolveAll(records []input.Record) []model.Account {
	accounts := make([]model.Account, 0, len(records))
	firstLine := make(map[common.Address]int, len(records))

	for _, rec := range records {
		acc := Resolve(rec)

		if acc.Valid {
			if line, ok := firstLine[acc.Address]; ok {
				acc = invalid(acc, model.KindDuplicateKey,
					errors.Wrapf(model.ErrDuplicateKey, "first listed on line %d", line))
			} else {
				firstLine[acc.Address] = acc.Line
			}
		}

		accounts = append(accounts, acc)
	}

	return accounts
}

// ValidAccounts filters accounts down to the valid ones, preserving order.
func ValidAccounts(accounts []model.Account) []model.Account {
	valid := make([]model.Account, 0, len(accounts))
	for _, acc := range accounts {
		if acc.Valid {
			valid = append(valid, acc)
		}
	}

	return valid
}

// Wipe zeroes the private scalar of the key.
func Wipe(privateKey *ecdsa.PrivateKey) {
	if privateKey == nil || privateKey.D == nil {
		return
	}

	privateKey.D.SetInt64(0)
}

func invalid(acc model.Account, kind model.ErrorKind, err error) model.Account {
	acc.Valid = false
	acc.Address = common.Address{}
	acc.ErrorKind = kind
	acc.Error = err.Error()

	return acc
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
