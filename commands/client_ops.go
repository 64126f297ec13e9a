package commands

import (
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/Luismorlan/ledger_in_go/model"
)

const (
	// do nothing operation
	NOOP = iota
	// Generate and store a new named key
	NEW_KEY
	// Print the names, public keys and addresses of all keys
	MY_KEYS
	// Send amount from a named key to a public key
	TRANSFER
	// Get the balance of a named key
	GET_BALANCE
	// Connect a ledger node with ip address and port
	CONNECT
)

var portRegex = regexp.MustCompile(PORT_REGEX)

type ClientCommand struct {
	Op   Operation
	Args []string
}

func (c ClientCommand) IsValid() bool {
	switch c.Op {
	case NEW_KEY, GET_BALANCE:
		return len(c.Args) == 1
	case MY_KEYS:
		return len(c.Args) == 0
	case TRANSFER:
		if len(c.Args) != 3 {
			return false
		}
		if _, err := model.ParsePublicKey(c.Args[1]); err != nil {
			return false
		}
		v, err := strconv.ParseUint(c.Args[2], 10, 64)
		return err == nil && v > 0
	case CONNECT:
		if len(c.Args) != 2 {
			return false
		}
		ip := net.ParseIP(c.Args[0])
		return ip != nil && portRegex.MatchString(c.Args[1])
	default:
		return false
	}
}

func CreateClientCommand(s string) (ClientCommand, error) {
	// split command by space.
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return ClientCommand{}, errors.New("command is empty")
	}
	cmd := ClientCommand{}
	switch ss[0] {
	case "new_key":
		cmd.Op = NEW_KEY
	case "my_keys":
		cmd.Op = MY_KEYS
	case "transfer":
		cmd.Op = TRANSFER
	case "get_balance":
		cmd.Op = GET_BALANCE
	case "connect":
		cmd.Op = CONNECT
	default:
		cmd.Op = NOOP
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return ClientCommand{}, errors.New("invalid command")
	}
	return cmd, nil
}
