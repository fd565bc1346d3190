// Package policy classifies commands and gates access to the control
// surface.
package policy

import "github.com/ent0n29/muxd/internal/cmdq"

var mutatingCommands = map[string]bool{
	"new-session":   true,
	"kill-session":  true,
	"set-hook":      true,
	"detach-client": true,
	"stop-queue":    true,
	"wait-for":      true,
}

// Mutating reports whether a command changes server state, as opposed
// to only reading or printing it.
func Mutating(cmd *cmdq.Command) bool {
	return mutatingCommands[cmd.Entry.Name]
}

// AnyMutating reports whether any command in the list mutates server
// state.
func AnyMutating(list *cmdq.List) bool {
	for _, cmd := range list.Commands() {
		if Mutating(cmd) {
			return true
		}
	}
	return false
}
