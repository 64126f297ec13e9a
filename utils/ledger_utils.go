package utils

import (
	"fmt"
	"strings"

	"github.com/Luismorlan/ledger_in_go/model"
)

// KeyNamer resolves public keys to display names.
type KeyNamer interface {
	GetKeyName(pk model.PublicKey) string
}

// Handle transaction:
// 1. Validate transaction.
// 2. Deduct every input.
// 3. Credit every output.
// Nothing is changed when the transaction is invalid.
func HandleTransaction(tx model.Transaction, ab *model.AccountBalance) error {
	return ab.ApplyTransaction(tx, Verify)
}

// Handle a bunch of transactions in order. Either all of them are applied or,
// on the first invalid one, none is.
func HandleTransactions(txs []model.Transaction, ab *model.AccountBalance) error {
	scratch, err := ab.Copy()
	if err != nil {
		return err
	}
	for i := 0; i < len(txs); i++ {
		if err := HandleTransaction(txs[i], scratch); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	*ab = *scratch
	return nil
}

// FormatAccountBalance lists every account of ab in first-touched order using
// names to look up the display name.
func FormatAccountBalance(ab *model.AccountBalance, names KeyNamer) string {
	var sb strings.Builder
	for _, pk := range ab.GetPublicKeys() {
		fmt.Fprintf(&sb, "The balance for %s is %d\n", names.GetKeyName(pk), ab.GetBalance(pk))
	}
	return sb.String()
}
