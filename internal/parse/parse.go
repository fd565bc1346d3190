// Package parse turns command text into command lists. The syntax is the
// usual multiplexer command line: whitespace-separated tokens with single
// or double quoting, backslash escapes, semicolon-separated commands, and
// # comments outside quotes.
package parse

import (
	"errors"
	"fmt"

	"github.com/ent0n29/muxd/internal/cmdq"
)

var (
	ErrEmptyCommand      = errors.New("empty command")
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// Line parses one line of command text against the table and returns a
// command list holding one reference for the caller. Every command is
// stamped with the given source location and flags.
func Line(s, file string, line int, table cmdq.Table, flags cmdq.Flags) (*cmdq.List, error) {
	groups, err := split(s)
	if err != nil {
		return nil, fmt.Errorf("%s:%d: %w", file, line, err)
	}

	var cmds []*cmdq.Command
	for _, tokens := range groups {
		entry := table.Get(tokens[0])
		if entry == nil {
			return nil, fmt.Errorf("%s:%d: unknown command: %s", file, line, tokens[0])
		}
		cmds = append(cmds, &cmdq.Command{
			Entry: entry,
			Args:  tokens[1:],
			File:  file,
			Line:  line,
			Flags: flags,
		})
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("%s:%d: %w", file, line, ErrEmptyCommand)
	}
	return cmdq.NewList(cmds...), nil
}

// split tokenizes a line into semicolon-separated commands.
func split(s string) ([][]string, error) {
	var (
		groups   [][]string
		tokens   []string
		token    []rune
		inToken  bool
		inSingle bool
		inDouble bool
	)

	endToken := func() {
		if inToken {
			tokens = append(tokens, string(token))
			token = token[:0]
			inToken = false
		}
	}
	endCommand := func() {
		endToken()
		if len(tokens) > 0 {
			groups = append(groups, tokens)
			tokens = nil
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inSingle:
			if r == '\'' {
				inSingle = false
			} else {
				token = append(token, r)
			}
		case inDouble:
			if r == '\\' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
				i++
				token = append(token, runes[i])
			} else if r == '"' {
				inDouble = false
			} else {
				token = append(token, r)
			}
		case r == '\\' && i+1 < len(runes):
			i++
			token = append(token, runes[i])
			inToken = true
		case r == '\'':
			inSingle = true
			inToken = true
		case r == '"':
			inDouble = true
			inToken = true
		case r == '#' && !inToken:
			// Comment to end of line.
			endCommand()
			return groups, nil
		case r == ';':
			endCommand()
		case r == ' ' || r == '\t':
			endToken()
		default:
			token = append(token, r)
			inToken = true
		}
	}
	if inSingle || inDouble {
		return nil, ErrUnterminatedQuote
	}
	endCommand()
	return groups, nil
}
