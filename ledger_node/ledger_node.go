package ledger_node

import (
	"errors"
	"sync"
	"time"

	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/prometheus/client_golang/prometheus"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

// HistoryEntry records one applied transaction.
type HistoryEntry struct {
	Id        string
	Tx        model.Transaction
	AppliedAt time.Time
}

// A ledger node owns the account balance and is its only writer.
type LedgerNode struct {
	// The ledger it needs to maintain.
	balance *model.AccountBalance
	// Most recent applied transactions, oldest first.
	history []HistoryEntry
	// Ledger config.
	config config.AppConfig
	// A single mutex for changing internal state. Validation and application
	// of a transaction happen under the same write lock.
	m sync.RWMutex
	// A unique indentifier of this node, only used for logs and rendering.
	uuid    string
	logger  *zap.Logger
	metrics *Metrics
}

// Create a ledger node holding the genesis balances of c. reg may be nil.
func NewLedgerNode(c config.AppConfig, logger *zap.Logger, reg prometheus.Registerer) (*LedgerNode, error) {
	base, err := c.GenesisBalances()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &LedgerNode{
		balance: model.NewAccountBalance(base),
		config:  c,
		uuid:    uuid.NewV4().String(),
		logger:  logger,
		metrics: NewMetrics(reg),
	}
	n.logger = n.logger.With(zap.String("node", n.uuid))
	n.metrics.Accounts.Set(float64(len(base)))
	n.logger.Info("ledger node created", zap.Int("accounts", len(base)), zap.Int64("total", n.balance.Total()))
	return n, nil
}

func (n *LedgerNode) Uuid() string {
	return n.uuid
}

// SubmitTransaction validates tx against the current balances and applies it.
// It returns the id recorded in the history.
func (n *LedgerNode) SubmitTransaction(tx model.Transaction) (string, error) {
	n.m.Lock()
	defer n.m.Unlock()

	if err := utils.HandleTransaction(tx, n.balance); err != nil {
		reason := "internal"
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			reason = verr.Kind.String()
		}
		n.metrics.Transactions.WithLabelValues("rejected", reason).Inc()
		n.logger.Info("transaction rejected",
			zap.Int("inputs", tx.Inputs.Len()),
			zap.Int("outputs", tx.Outputs.Len()),
			zap.Error(err))
		return "", err
	}

	id := uuid.NewV4().String()
	n.history = append(n.history, HistoryEntry{Id: id, Tx: tx, AppliedAt: time.Now()})
	if limit := n.config.HISTORY_LIMIT; len(n.history) > limit {
		n.history = append([]HistoryEntry(nil), n.history[len(n.history)-limit:]...)
	}
	n.metrics.Transactions.WithLabelValues("accepted", "").Inc()
	n.metrics.Accounts.Set(float64(len(n.balance.Keys)))
	in, _ := tx.Inputs.Sum()
	out, _ := tx.Outputs.Sum()
	n.logger.Info("transaction applied",
		zap.String("tx", id),
		zap.Uint64("inputs_total", in),
		zap.Uint64("outputs_total", out))
	return id, nil
}

// GetBalance returns the balance of pk and whether the account exists.
func (n *LedgerNode) GetBalance(pk model.PublicKey) (int64, bool) {
	n.m.RLock()
	defer n.m.RUnlock()
	return n.balance.GetBalance(pk), n.balance.HasAccount(pk)
}

// SetBalance overwrites a balance. It is an operator command and bypasses
// validation.
func (n *LedgerNode) SetBalance(pk model.PublicKey, balance int64) {
	n.m.Lock()
	defer n.m.Unlock()
	n.balance.SetBalance(pk, balance)
	n.metrics.Accounts.Set(float64(len(n.balance.Keys)))
	n.logger.Warn("balance overwritten", zap.String("account", pk.String()), zap.Int64("balance", balance))
}

// Return a deep copy of the current ledger.
func (n *LedgerNode) GetLedgerSnapshot() (*model.AccountBalance, error) {
	n.m.RLock()
	defer n.m.RUnlock()
	return n.balance.Copy()
}

// GetHistory returns up to the last count applied transactions, oldest first.
func (n *LedgerNode) GetHistory(count int) []HistoryEntry {
	n.m.RLock()
	defer n.m.RUnlock()
	if count > len(n.history) || count < 0 {
		count = len(n.history)
	}
	out := make([]HistoryEntry, count)
	copy(out, n.history[len(n.history)-count:])
	return out
}

// GetHistoryTransactions is GetHistory without the metadata.
func (n *LedgerNode) GetHistoryTransactions(count int) []model.Transaction {
	entries := n.GetHistory(count)
	txs := make([]model.Transaction, 0, len(entries))
	for _, e := range entries {
		txs = append(txs, e.Tx)
	}
	return txs
}
