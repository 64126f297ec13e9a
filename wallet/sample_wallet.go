package wallet

// GenerateSampleWallet creates a wallet with one fresh key per name.
func GenerateSampleWallet(names ...string) (*Wallet, error) {
	w := NewWallet()
	for _, name := range names {
		if _, err := w.GenerateKey(name); err != nil {
			return nil, err
		}
	}
	return w, nil
}
