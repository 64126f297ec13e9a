package ledger_node

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startTestServer(t *testing.T, n *LedgerNode) service.LedgerServiceClient {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	service.RegisterLedgerServiceServer(s, NewLedgerNodeServer(n, nil))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.Dial("bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return service.NewLedgerServiceClient(conn)
}

func TestServerRoundTrip(t *testing.T) {
	a, b, c := newTestAccount(t), newTestAccount(t), newTestAccount(t)
	n, _ := newTestNode(t, map[model.PublicKey]int64{a.pk: 50})
	client := startTestServer(t, n)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx := transfer(t, a, 30,
		model.TxOutput{Recipient: b.pk, Amount: 10},
		model.TxOutput{Recipient: c.pk, Amount: 20})
	res, err := client.SubmitTransaction(ctx, &service.SubmitTransactionRequest{Tx: service.TransactionFromModel(tx)})
	require.NoError(t, err)
	assert.NotEmpty(t, res.TxId)

	balance, err := client.GetBalance(ctx, &service.GetBalanceRequest{PublicKey: c.pk.String()})
	require.NoError(t, err)
	assert.True(t, balance.Exists)
	assert.Equal(t, int64(20), balance.Balance)

	list, err := client.ListBalances(ctx, &service.ListBalancesRequest{})
	require.NoError(t, err)
	require.Len(t, list.Accounts, 3)
	assert.Equal(t, a.pk.String(), list.Accounts[0].PublicKey)
	assert.Equal(t, int64(20), list.Accounts[0].Balance)
}

func TestServerRejections(t *testing.T) {
	a, b := newTestAccount(t), newTestAccount(t)
	n, _ := newTestNode(t, map[model.PublicKey]int64{a.pk: 10})
	client := startTestServer(t, n)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx := transfer(t, a, 15, model.TxOutput{Recipient: b.pk, Amount: 15})
	_, err := client.SubmitTransaction(ctx, &service.SubmitTransactionRequest{Tx: service.TransactionFromModel(tx)})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.ErrorIs(t, service.FromStatus(err), model.ErrInsufficientFunds)

	wire := service.TransactionFromModel(transfer(t, a, 5, model.TxOutput{Recipient: b.pk, Amount: 5}))
	wire.Outputs[0].Amount = 4
	_, err = client.SubmitTransaction(ctx, &service.SubmitTransactionRequest{Tx: wire})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
	assert.ErrorIs(t, service.FromStatus(err), model.ErrBadSignature)

	_, err = client.SubmitTransaction(ctx, &service.SubmitTransactionRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetBalance(ctx, &service.GetBalanceRequest{PublicKey: "nothex"})
	assert.ErrorIs(t, service.FromStatus(err), model.ErrInvalidInput)

	balance, _ := n.GetBalance(a.pk)
	assert.Equal(t, int64(10), balance)
}
