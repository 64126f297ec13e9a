package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/ledger_node"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/Luismorlan/ledger_in_go/wallet"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay the four wallet walkthrough against an in-process ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(os.Stdout)
	},
}

func runDemo(out io.Writer) error {
	alice, err := wallet.GenerateSampleWallet("A1", "A2")
	if err != nil {
		return err
	}
	bob, err := wallet.GenerateSampleWallet("B1", "B2")
	if err != nil {
		return err
	}
	carol, err := wallet.GenerateSampleWallet("C1", "C2", "C3")
	if err != nil {
		return err
	}
	david, err := wallet.GenerateSampleWallet("D1")
	if err != nil {
		return err
	}
	keys := wallet.NewPublicKeyMap()
	for _, w := range []*wallet.Wallet{alice, bob, carol, david} {
		keys.AddPublicKeyMap(w.ToPublicKeyMap())
	}
	pks := make(map[string]model.PublicKey)
	for _, name := range keys.Names() {
		k, err := keys.GetPublicKey(name)
		if err != nil {
			return err
		}
		pks[name] = k
	}
	pk := func(name string) model.PublicKey {
		return pks[name]
	}

	node, err := ledger_node.NewLedgerNode(config.DefaultAppConfig(), nil, nil)
	if err != nil {
		return err
	}
	for _, name := range keys.Names() {
		node.SetBalance(pk(name), 0)
	}
	node.SetBalance(pk("A1"), 35)
	node.SetBalance(pk("C1"), 10)

	report := func(title string) error {
		snapshot, err := node.GetLedgerSnapshot()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n%s\n", title, utils.FormatAccountBalance(snapshot, keys))
		return nil
	}
	if err := report("Initial balances"); err != nil {
		return err
	}

	// tx1: A1 pays 35, B2 and C2 get 10 each and the change goes to A2.
	outputs := model.NewTxOutputList(
		model.TxOutput{Recipient: pk("B2"), Amount: 10},
		model.TxOutput{Recipient: pk("C2"), Amount: 10},
		model.TxOutput{Recipient: pk("A2"), Amount: 15})
	in, err := alice.CreateTxInput("A1", 35, outputs)
	if err != nil {
		return err
	}
	if _, err := node.SubmitTransaction(model.NewTransaction(model.NewTxInputList(in), outputs)); err != nil {
		return fmt.Errorf("tx1: %w", err)
	}
	if err := report("After tx1"); err != nil {
		return err
	}

	// tx2: B2 and C2 pay 10 each, D1 gets 15 and C3 the change.
	outputs = model.NewTxOutputList(
		model.TxOutput{Recipient: pk("D1"), Amount: 15},
		model.TxOutput{Recipient: pk("C3"), Amount: 5})
	inB2, err := bob.CreateTxInput("B2", 10, outputs)
	if err != nil {
		return err
	}
	inC2, err := carol.CreateTxInput("C2", 10, outputs)
	if err != nil {
		return err
	}
	if _, err := node.SubmitTransaction(model.NewTransaction(model.NewTxInputList(inB2, inC2), outputs)); err != nil {
		return fmt.Errorf("tx2: %w", err)
	}
	if err := report("After tx2"); err != nil {
		return err
	}

	// A replay of tx1 must fail now that A1 is empty.
	in, err = alice.CreateTxInput("A1", 35, model.NewTxOutputList(model.TxOutput{Recipient: pk("D1"), Amount: 35}))
	if err != nil {
		return err
	}
	_, err = node.SubmitTransaction(model.NewTransaction(model.NewTxInputList(in),
		model.NewTxOutputList(model.TxOutput{Recipient: pk("D1"), Amount: 35})))
	fmt.Fprintf(out, "Overspending A1: %v\n", err)
	return nil
}
