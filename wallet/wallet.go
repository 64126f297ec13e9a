package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/Luismorlan/ledger_in_go/layout"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/service"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/jroimartin/gocui"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Wallet holds named keys, signs messages and sends transactions to a ledger node.
type Wallet struct {
	keys  map[string]*btcec.PrivateKey
	names []string

	LedgerClient service.LedgerServiceClient
	conn         *grpc.ClientConn
	// Deadline for every RPC.
	Timeout time.Duration
	// Optional key store, every generated key is saved to it.
	store *Store
	// GUI handle, nil in debug mode.
	g      *gocui.Gui
	logger *zap.Logger
}

func NewWallet() *Wallet {
	return &Wallet{
		keys:    make(map[string]*btcec.PrivateKey),
		Timeout: 10 * time.Second,
		logger:  zap.NewNop(),
	}
}

// SetLogger routes Log output to logger when there is no GUI.
func (w *Wallet) SetLogger(logger *zap.Logger) {
	w.logger = logger
}

func (w *Wallet) SetGui(g *gocui.Gui) {
	w.g = g
}

// AddKey registers sk under name. Names are unique.
func (w *Wallet) AddKey(name string, sk *btcec.PrivateKey) error {
	if name == "" {
		return fmt.Errorf("%w: key name is empty", model.ErrInvalidInput)
	}
	if _, exists := w.keys[name]; exists {
		return fmt.Errorf("%w: key %q already exists", model.ErrInvalidInput, name)
	}
	w.keys[name] = sk
	w.names = append(w.names, name)
	return nil
}

// GenerateKey creates a new key named name and saves it to the store, if any.
func (w *Wallet) GenerateKey(name string) (model.PublicKey, error) {
	sk, pk, err := utils.GenerateKeyPair()
	if err != nil {
		return model.PublicKey{}, err
	}
	if err := w.AddKey(name, sk); err != nil {
		return model.PublicKey{}, err
	}
	if w.store != nil {
		if err := w.store.SaveKey(name, sk); err != nil {
			return model.PublicKey{}, err
		}
	}
	return pk, nil
}

func (w *Wallet) privateKey(name string) (*btcec.PrivateKey, error) {
	sk, ok := w.keys[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key name %q", model.ErrInvalidInput, name)
	}
	return sk, nil
}

func (w *Wallet) GetPublicKey(name string) (model.PublicKey, error) {
	sk, err := w.privateKey(name)
	if err != nil {
		return model.PublicKey{}, err
	}
	return utils.PublicKeyOf(sk)
}

// Names returns the key names in the order they were added.
func (w *Wallet) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// SignMessage signs msg with the key called name.
func (w *Wallet) SignMessage(msg *model.Message, name string) (model.Signature, error) {
	sk, err := w.privateKey(name)
	if err != nil {
		return nil, err
	}
	return utils.Sign(msg.Bytes(), sk)
}

// CreateTxInput creates an input debiting amount from the key called name,
// signed over outputs.
func (w *Wallet) CreateTxInput(name string, amount uint64, outputs model.TxOutputList) (model.TxInput, error) {
	sk, err := w.privateKey(name)
	if err != nil {
		return model.TxInput{}, err
	}
	return utils.CreateTxInput(sk, amount, outputs)
}

// ToPublicKeyMap exports the public half of the wallet.
func (w *Wallet) ToPublicKeyMap() *PublicKeyMap {
	m := NewPublicKeyMap()
	for _, name := range w.names {
		pk, err := utils.PublicKeyOf(w.keys[name])
		if err != nil {
			continue
		}
		m.AddKey(name, pk)
	}
	return m
}

// CreateTransfer builds a transaction moving amount from the key called from
// to receiver. When change is positive it is routed back to the sender, so the
// input is amount+change.
func (w *Wallet) CreateTransfer(from string, receiver model.PublicKey, amount, change uint64) (model.Transaction, error) {
	outputs := model.NewTxOutputList(model.TxOutput{Recipient: receiver, Amount: amount})
	if change > 0 {
		sender, err := w.GetPublicKey(from)
		if err != nil {
			return model.Transaction{}, err
		}
		outputs.Add(sender, change)
	}
	in, err := w.CreateTxInput(from, amount+change, outputs)
	if err != nil {
		return model.Transaction{}, err
	}
	return model.NewTransaction(model.NewTxInputList(in), outputs), nil
}

func (w *Wallet) SetLedgerConnection(ipAddr string, port string) error {
	serverAddr := ipAddr + ":" + port
	conn, err := grpc.Dial(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", serverAddr, err)
	}
	if w.conn != nil {
		w.conn.Close()
	}
	w.conn = conn
	w.LedgerClient = service.NewLedgerServiceClient(conn)
	return nil
}

func (w *Wallet) client() (service.LedgerServiceClient, error) {
	if w.LedgerClient == nil {
		return nil, fmt.Errorf("not connected to a ledger node")
	}
	return w.LedgerClient, nil
}

// SendTransaction submits tx and returns the id the node assigned to it.
// Validation failures come back as *model.ValidationError.
func (w *Wallet) SendTransaction(tx model.Transaction) (string, error) {
	c, err := w.client()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()
	res, err := c.SubmitTransaction(ctx, &service.SubmitTransactionRequest{Tx: service.TransactionFromModel(tx)})
	if err != nil {
		return "", service.FromStatus(err)
	}
	return res.TxId, nil
}

// TransferMoney sends amount from the key called from to the hex encoded
// receiver public key.
func (w *Wallet) TransferMoney(from string, receiverPK string, amount uint64) (string, error) {
	receiver, err := model.ParsePublicKey(receiverPK)
	if err != nil {
		return "", err
	}
	tx, err := w.CreateTransfer(from, receiver, amount, 0)
	if err != nil {
		return "", err
	}
	return w.SendTransaction(tx)
}

// GetBalance asks the ledger node for the balance of the key called name.
func (w *Wallet) GetBalance(name string) (int64, error) {
	pk, err := w.GetPublicKey(name)
	if err != nil {
		return 0, err
	}
	c, err := w.client()
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()
	res, err := c.GetBalance(ctx, &service.GetBalanceRequest{PublicKey: pk.String()})
	if err != nil {
		return 0, service.FromStatus(err)
	}
	return res.Balance, nil
}

// Log writes s to the GUI logger view, or to the zap logger in debug mode.
func (w *Wallet) Log(s string) {
	if w.g == nil {
		w.logger.Info(s)
		return
	}
	layout.Println(w.g, s)
}

func (w *Wallet) Close() error {
	if w.conn != nil {
		w.conn.Close()
	}
	if w.store != nil {
		return w.store.Close()
	}
	return nil
}
