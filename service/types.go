package service

type Input struct {
	// Hex encoded compressed public key of the sender.
	Sender    string `json:"sender"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature"`
}

type Output struct {
	// Hex encoded compressed public key of the recipient.
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

type Transaction struct {
	Inputs  []Input  `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

type SubmitTransactionRequest struct {
	Tx *Transaction `json:"tx"`
}

type SubmitTransactionResponse struct {
	// Id assigned by the node to the applied transaction.
	TxId string `json:"tx_id"`
}

type GetBalanceRequest struct {
	PublicKey string `json:"public_key"`
}

type GetBalanceResponse struct {
	Balance int64 `json:"balance"`
	// False when the account has never been touched.
	Exists bool `json:"exists"`
}

type ListBalancesRequest struct{}

type AccountEntry struct {
	PublicKey string `json:"public_key"`
	Balance   int64  `json:"balance"`
}

type ListBalancesResponse struct {
	Accounts []AccountEntry `json:"accounts"`
}
