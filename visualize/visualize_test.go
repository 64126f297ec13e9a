package visualize

import (
	"os"
	"testing"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	_, a, err := utils.GenerateKeyPair()
	require.NoError(t, err)
	_, b, err := utils.GenerateKeyPair()
	require.NoError(t, err)
	ab := model.NewAccountBalance(map[model.PublicKey]int64{a: 5, b: 15})
	outputs := model.NewTxOutputList(model.TxOutput{Recipient: b, Amount: 15})
	tx := model.NewTransaction(model.NewTxInputList(model.NewTxInput(a, 15, nil)), outputs)

	data := constructData(ab, []model.Transaction{tx})
	assert.Len(t, data.accounts, 2)
	assert.Equal(t, int64(20), data.total)
	require.Len(t, data.history, 1)
	assert.Equal(t, uint64(15), data.history[0].outputs[0].amount)

	path, err := Render(ab, []model.Transaction{tx}, "test-"+t.Name())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
