package main

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/layout"
	"github.com/Luismorlan/ledger_in_go/ledger_node"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/service"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/jroimartin/gocui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
)

const usage = `Commands:
  balances                     list every account
  set_balance <pk> <amount>    overwrite a balance
  history <n>                  print the last n transactions
  show <n>                     render the ledger and the last n transactions
Ctrl+C quits.`

var (
	port       string
	configPath string
	debugMode  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ledger_node",
		Short:        "Serve an account balance ledger over gRPC",
		SilenceUsage: true,
		RunE:         run,
	}
	rootCmd.Flags().StringVar(&port, "port", "10000", "port to listen to wallets")
	rootCmd.Flags().StringVar(&configPath, "config_path", "ledger_node/cmd/config.yaml", "path to ledger node config")
	rootCmd.Flags().BoolVar(&debugMode, "debug_mode", false, "Using debug mode will disable fancy GUI.")
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// guiWriter sends log lines to the logger view.
type guiWriter struct {
	g *gocui.Gui
}

func (w guiWriter) Write(p []byte) (int, error) {
	layout.Println(w.g, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func newLogger(level string, g *gocui.Gui) (*zap.Logger, error) {
	if g == nil {
		return config.NewLogger(level)
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(guiWriter{g}), lvl)), nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.ParseAppConfig(configPath)
	if err != nil {
		return err
	}

	// A command channel that non-blockingly takes console input.
	cmds := make(chan commands.Command)
	var g *gocui.Gui
	if !debugMode {
		g, err = layout.CreateGui(func(line string) error {
			c, err := commands.CreateCommand(line)
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
	}

	logger, err := newLogger(cfg.LOG_LEVEL, g)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	node, err := ledger_node.NewLedgerNode(cfg, logger, reg)
	if err != nil {
		return err
	}
	server := ledger_node.NewLedgerNodeServer(node, logger)

	lis, err := net.Listen("tcp", fmt.Sprintf("localhost:%s", port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	grpcServer := grpc.NewServer()
	service.RegisterLedgerServiceServer(grpcServer, server)
	go func() {
		logger.Info("serving ledger", zap.String("port", port))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc server stopped", zap.Error(err))
		}
	}()
	defer grpcServer.GracefulStop()

	if cfg.METRICS_PORT != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe("localhost:"+cfg.METRICS_PORT, mux); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	out := func(s string) {
		if g != nil {
			layout.Println(g, s)
			return
		}
		fmt.Println(s)
	}
	go HandleCommand(cmds, server, out)

	if g == nil {
		ParseCommand(cmds)
		return nil
	}
	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Parse command from stdio until it is closed.
func ParseCommand(cmds chan commands.Command) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		c, err := commands.CreateCommand(scanner.Text())
		if err != nil {
			fmt.Println(err)
			fmt.Print("> ")
			continue
		}
		cmds <- c
		fmt.Print("> ")
	}
}

func HandleCommand(cmds chan commands.Command, server *ledger_node.LedgerNodeServer, out func(string)) {
	node := server.Node()
	for c := range cmds {
		switch c.Op {
		case commands.BALANCES:
			snapshot, err := node.GetLedgerSnapshot()
			if err != nil {
				out(err.Error())
				continue
			}
			for _, pk := range snapshot.GetPublicKeys() {
				out(fmt.Sprintf("%s %s %d", pk, utils.PubKeyToAddress(pk), snapshot.GetBalance(pk)))
			}
			out(fmt.Sprintf("total %d", snapshot.Total()))
		case commands.SET_BALANCE:
			pk, _ := model.ParsePublicKey(c.Args[0])
			v, _ := strconv.ParseInt(c.Args[1], 10, 64)
			node.SetBalance(pk, v)
		case commands.HISTORY:
			n, _ := strconv.Atoi(c.Args[0])
			for _, e := range node.GetHistory(n) {
				in, _ := e.Tx.Inputs.Sum()
				o, _ := e.Tx.Outputs.Sum()
				out(fmt.Sprintf("%s %s inputs=%d outputs=%d", e.AppliedAt.Format("15:04:05"), e.Id, in, o))
			}
		case commands.SHOW:
			n, _ := strconv.Atoi(c.Args[0])
			path, err := server.Show(n)
			if err != nil {
				out(err.Error())
				continue
			}
			out("rendered ledger to " + path)
		default:
			out(fmt.Sprintf("Unrecognized command: %v", c))
		}
	}
}
