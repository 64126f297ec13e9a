package ledger_node

import (
	"context"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/service"
	"github.com/Luismorlan/ledger_in_go/visualize"
	"go.uber.org/zap"
)

// LedgerNodeServer exposes a LedgerNode over gRPC.
type LedgerNodeServer struct {
	node   *LedgerNode
	logger *zap.Logger
}

func NewLedgerNodeServer(node *LedgerNode, logger *zap.Logger) *LedgerNodeServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerNodeServer{node: node, logger: logger}
}

func (sev *LedgerNodeServer) Node() *LedgerNode {
	return sev.node
}

// SubmitTransaction validates and applies the transaction in one step.
func (sev *LedgerNodeServer) SubmitTransaction(ctx context.Context, req *service.SubmitTransactionRequest) (*service.SubmitTransactionResponse, error) {
	tx, err := req.Tx.ToModel()
	if err != nil {
		return nil, service.ToStatus(err)
	}
	id, err := sev.node.SubmitTransaction(tx)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	return &service.SubmitTransactionResponse{TxId: id}, nil
}

func (sev *LedgerNodeServer) GetBalance(ctx context.Context, req *service.GetBalanceRequest) (*service.GetBalanceResponse, error) {
	pk, err := model.ParsePublicKey(req.PublicKey)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	balance, exists := sev.node.GetBalance(pk)
	return &service.GetBalanceResponse{Balance: balance, Exists: exists}, nil
}

func (sev *LedgerNodeServer) ListBalances(ctx context.Context, req *service.ListBalancesRequest) (*service.ListBalancesResponse, error) {
	snapshot, err := sev.node.GetLedgerSnapshot()
	if err != nil {
		return nil, service.ToStatus(err)
	}
	res := &service.ListBalancesResponse{}
	for _, pk := range snapshot.GetPublicKeys() {
		res.Accounts = append(res.Accounts, service.AccountEntry{
			PublicKey: pk.String(),
			Balance:   snapshot.GetBalance(pk),
		})
	}
	return res, nil
}

// Show renders the current ledger and the last d transactions.
func (sev *LedgerNodeServer) Show(d int) (string, error) {
	snapshot, err := sev.node.GetLedgerSnapshot()
	if err != nil {
		return "", err
	}
	return visualize.Render(snapshot, sev.node.GetHistoryTransactions(d), sev.node.Uuid())
}
