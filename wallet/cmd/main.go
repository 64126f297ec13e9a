package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/layout"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/Luismorlan/ledger_in_go/wallet"
	"github.com/jroimartin/gocui"
	"github.com/spf13/cobra"
)

const usage = `Commands:
  connect <ip> <port>              connect to a ledger node
  new_key <name>                   generate and store a key
  my_keys                          list your keys and addresses
  transfer <from> <to_pk> <amount> send amount from a named key
  get_balance <name>               ask the node for a balance
Ctrl+C quits.`

var (
	dbPath     string
	configPath string
	debugMode  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "wallet",
		Short:        "Hold keys and send signed transactions to a ledger node",
		SilenceUsage: true,
		RunE:         run,
	}
	rootCmd.Flags().StringVar(&dbPath, "db_path", "/tmp/wallet.db", "bolt file holding your private keys")
	rootCmd.Flags().StringVar(&configPath, "config_path", "", "optional wallet config, only rpc_timeout and log_level are used")
	rootCmd.Flags().BoolVar(&debugMode, "debug_mode", false, "Using debug mode will disable fancy GUI.")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultAppConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.ParseAppConfig(configPath); err != nil {
			return err
		}
	}
	logger, err := config.NewLogger(cfg.LOG_LEVEL)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := wallet.OpenStore(dbPath)
	if err != nil {
		return err
	}
	w, err := store.LoadWallet()
	if err != nil {
		store.Close()
		return err
	}
	defer w.Close()
	w.Timeout = cfg.RPC_TIMEOUT
	w.SetLogger(logger)

	cmds := make(chan commands.ClientCommand)
	go HandleCommand(cmds, w)

	if debugMode {
		ParseCommand(cmds)
		return nil
	}
	g, err := layout.CreateGui(func(line string) error {
		c, err := commands.CreateClientCommand(line)
		if err != nil {
			return err
		}
		go func() { cmds <- c }()
		return nil
	}, usage)
	if err != nil {
		return err
	}
	defer g.Close()
	w.SetGui(g)
	w.Log(fmt.Sprintf("loaded %d keys from %s", len(w.Names()), dbPath))
	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Parse command from stdio until it is closed.
func ParseCommand(cmds chan commands.ClientCommand) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		c, err := commands.CreateClientCommand(scanner.Text())
		if err != nil {
			fmt.Println(err)
			fmt.Print("> ")
			continue
		}
		cmds <- c
		fmt.Print("> ")
	}
}

func HandleCommand(cmds chan commands.ClientCommand, w *wallet.Wallet) {
	for c := range cmds {
		switch c.Op {
		case commands.NEW_KEY:
			pk, err := w.GenerateKey(c.Args[0])
			if err != nil {
				w.Log("fail to create key: " + err.Error())
				continue
			}
			w.Log(fmt.Sprintf("created key %s: %s", c.Args[0], pk))
		case commands.MY_KEYS:
			for _, name := range w.Names() {
				pk, _ := w.GetPublicKey(name)
				w.Log(fmt.Sprintf("%s %s %s", name, pk, utils.PubKeyToAddress(pk)))
			}
		case commands.TRANSFER:
			amount, _ := strconv.ParseUint(c.Args[2], 10, 64)
			id, err := w.TransferMoney(c.Args[0], c.Args[1], amount)
			if err != nil {
				w.Log("fail to transfer money: " + err.Error())
				continue
			}
			w.Log(fmt.Sprintf("transaction %s accepted, receiver: %s, value: %d", id, utils.ShortenHex(c.Args[1]), amount))
		case commands.GET_BALANCE:
			v, err := w.GetBalance(c.Args[0])
			if err != nil {
				w.Log("fail to get balance: " + err.Error())
				continue
			}
			w.Log(fmt.Sprintf("the balance of %s is %d", c.Args[0], v))
		case commands.CONNECT:
			ipAddr, port := c.Args[0], c.Args[1]
			if err := w.SetLedgerConnection(ipAddr, port); err != nil {
				w.Log("failed to connect to ledger node " + ipAddr + ":" + port)
				continue
			}
			w.Log("connected ledger node " + ipAddr + ":" + port)
		default:
			w.Log(fmt.Sprintf("Unimplemented command: %d", c.Op))
		}
	}
}
