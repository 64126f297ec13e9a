package visualize

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/bradleyjkemp/memviz"
)

// We re-define the rendered model here because public keys and signatures
// are far too long to draw.
type account struct {
	publicKey string
	address   string
	balance   int64
}

type input struct {
	sender string
	amount uint64
}

type output struct {
	recipient string
	amount    uint64
}

type transaction struct {
	inputs  []input
	outputs []output
}

type ledger struct {
	accounts []account
	total    int64
	history  []transaction
}

func txToTx(tx model.Transaction) transaction {
	t := transaction{}
	for _, in := range tx.Inputs.ToList() {
		t.inputs = append(t.inputs, input{sender: utils.ShortenHex(in.Sender.String()), amount: in.Amount})
	}
	for _, out := range tx.Outputs.ToList() {
		t.outputs = append(t.outputs, output{recipient: utils.ShortenHex(out.Recipient.String()), amount: out.Amount})
	}
	return t
}

func constructData(ab *model.AccountBalance, txs []model.Transaction) ledger {
	l := ledger{total: ab.Total()}
	for _, pk := range ab.GetPublicKeys() {
		l.accounts = append(l.accounts, account{
			publicKey: utils.ShortenHex(pk.String()),
			address:   utils.PubKeyToAddress(pk),
			balance:   ab.GetBalance(pk),
		})
	}
	for _, tx := range txs {
		l.history = append(l.history, txToTx(tx))
	}
	return l
}

// Render writes a Graphviz description of the ledger and its recent history
// to the temp directory, where:
// ab: ledger snapshot to draw.
// txs: transactions to draw next to it.
// id: unique id of the ledger node.
// If the dot binary is available the PNG path is returned, otherwise the path
// of the dot file.
func Render(ab *model.AccountBalance, txs []model.Transaction, id string) (string, error) {
	buf := &bytes.Buffer{}
	data := constructData(ab, txs)
	memviz.Map(buf, &data)

	fileName := filepath.Join(os.TempDir(), "ledgerdata-"+id)
	if err := os.WriteFile(fileName, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	outputName := filepath.Join(os.TempDir(), "rendered-ledger-"+id+".png")
	cmd := exec.Command("dot", "-Tpng", fileName, "-o", outputName)
	if err := cmd.Run(); err != nil {
		return fileName, nil
	}
	return outputName, nil
}
