package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type commandKind int

const (
	cmdQuery commandKind = iota
	cmdVote
	cmdListAll
	cmdInitialize
	cmdLoadTest
)

// command is one decoded invocation modifier. All modifiers are
// decoded here, once; nothing downstream matches on raw argument
// strings.
type command struct {
	kind  commandKind
	name  string // query / vote candidate
	votes int    // loadtest volume
}

// parseCommands decodes the `query=<name>`, `vote=<name>`,
// `getAllVotes=true`, `initialize=true` and `loadtest=<votes>`
// modifiers into the command list, preserving argument order.
func parseCommands(args []string) (commands []command, e error) {

	for _, arg := range args {

		key, value, found := strings.Cut(arg, "=")
		if !found {
			e = errors.Errorf("malformed modifier %q, want key=value", arg)
			return
		}

		switch key {
		case "query", "vote":
			if value == "" {
				e = errors.Errorf("%s needs a candidate name", key)
				return
			}
			kind := cmdQuery
			if key == "vote" {
				kind = cmdVote
			}
			commands = append(commands, command{kind: kind, name: value})
		case "getAllVotes":
			if value != "true" {
				e = errors.Errorf("getAllVotes accepts only true, got %q", value)
				return
			}
			commands = append(commands, command{kind: cmdListAll})
		case "initialize":
			if value != "true" {
				e = errors.Errorf("initialize accepts only true, got %q", value)
				return
			}
			commands = append(commands, command{kind: cmdInitialize})
		case "loadtest":
			votes, err := strconv.Atoi(value)
			if err != nil || votes <= 0 {
				e = errors.Errorf("loadtest needs a positive vote count, got %q", value)
				return
			}
			commands = append(commands, command{kind: cmdLoadTest, votes: votes})
		default:
			e = errors.Errorf("unknown modifier %q", key)
			return
		}
	}

	if len(commands) == 0 {
		e = errors.New("nothing to do; use query=<name>, vote=<name>, getAllVotes=true, initialize=true or loadtest=<votes>")
	}

	return
}
