package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Luismorlan/ledger_in_go/model"
)

type Operation int

const PORT_REGEX = "^[0-9]{4,5}$"

const (
	DEFAULT = iota
	// List every account and its balance.
	BALANCES
	// Overwrite the balance of an account, bypassing validation.
	SET_BALANCE
	// Print the last n applied transactions.
	HISTORY
	// Render the ledger and the last n transactions.
	SHOW
)

// A command contains a operation and many arguments.
type Command struct {
	Op   Operation
	Args []string
}

func (c Command) IsValid() bool {
	switch c.Op {
	case BALANCES:
		return len(c.Args) == 0
	case SET_BALANCE:
		if len(c.Args) != 2 {
			return false
		}
		if _, err := model.ParsePublicKey(c.Args[0]); err != nil {
			return false
		}
		_, err := strconv.ParseInt(c.Args[1], 10, 64)
		return err == nil
	case HISTORY, SHOW:
		if len(c.Args) != 1 {
			return false
		}
		// depth must be a non-negative number.
		v, err := strconv.Atoi(c.Args[0])
		return err == nil && v >= 0
	default:
		return false
	}
}

// From string, create
func CreateCommand(s string) (Command, error) {
	// split command by space.
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return Command{}, errors.New("command is empty")
	}
	cmd := Command{}
	switch ss[0] {
	case "balances":
		cmd.Op = BALANCES
	case "set_balance":
		cmd.Op = SET_BALANCE
	case "history":
		cmd.Op = HISTORY
	case "show":
		cmd.Op = SHOW
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return Command{}, errors.New("invalid command")
	}
	return cmd, nil
}

// Create a brand new command with default operation.
func NewDefaultCommand() Command {
	return Command{
		Op: DEFAULT,
	}
}

func (c Command) IsDefault() bool {
	return c.Op == DEFAULT
}
