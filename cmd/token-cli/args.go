package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/keypair"
	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

func parsePublicKey(name, value string) (ed25519.PublicKey, error) {
	key, err := keypair.ParsePublicKey(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", name)
	}
	return key, nil
}

func parseAmount(value string) (uint64, error) {
	amount, err := strconv.ParseUint(strings.ReplaceAll(strings.TrimSpace(value), "_", ""), 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid amount %q: expected an integer in base units between 0 and %d", value, uint64(math.MaxUint64))
	}
	return amount, nil
}

func parseDecimals(value string) (uint8, error) {
	decimals, err := strconv.ParseUint(strings.TrimSpace(value), 10, 8)
	if err != nil {
		return 0, errors.Errorf("invalid decimals %q", value)
	}
	return uint8(decimals), nil
}

func parseAuthorityType(value string) (token.AuthorityType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mint":
		return token.AuthorityTypeMintTokens, nil
	case "freeze":
		return token.AuthorityTypeFreezeAccount, nil
	}
	return 0, errors.Errorf("unsupported authority type %q: expected mint or freeze", value)
}

func encodeTransaction(txn *solana.Transaction) string {
	return base64.StdEncoding.EncodeToString(txn.Marshal())
}
