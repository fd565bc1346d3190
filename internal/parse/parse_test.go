package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/ent0n29/muxd/internal/cmdq"
)

func testTable(names ...string) cmdq.Table {
	t := cmdq.Table{}
	for _, n := range names {
		t[n] = &cmdq.Entry{Name: n}
	}
	return t
}

func TestLineParsesCommandAndArgs(t *testing.T) {
	list, err := Line("echo hello world", "test", 1, testTable("echo"), 0)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	cmds := list.Commands()
	if len(cmds) != 1 {
		t.Fatalf("commands = %d, want 1", len(cmds))
	}
	if cmds[0].Entry.Name != "echo" {
		t.Fatalf("name = %q, want %q", cmds[0].Entry.Name, "echo")
	}
	if got := strings.Join(cmds[0].Args, " "); got != "hello world" {
		t.Fatalf("args = %q, want %q", got, "hello world")
	}
	if list.Refs() != 1 {
		t.Fatalf("Refs() = %d, want 1 for the caller", list.Refs())
	}
}

func TestLineSplitsOnSemicolons(t *testing.T) {
	list, err := Line("echo a; fail; echo b", "test", 1, testTable("echo", "fail"), 0)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	cmds := list.Commands()
	if len(cmds) != 3 {
		t.Fatalf("commands = %d, want 3", len(cmds))
	}
	if cmds[1].Entry.Name != "fail" {
		t.Fatalf("second command = %q, want %q", cmds[1].Entry.Name, "fail")
	}
}

func TestLineQuotingAndEscapes(t *testing.T) {
	list, err := Line(`echo "a b" 'c d' e\ f "g\"h"`, "test", 1, testTable("echo"), 0)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	args := list.Commands()[0].Args
	want := []string{"a b", "c d", "e f", `g"h`}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestLineStripsComments(t *testing.T) {
	list, err := Line("echo hi # the rest is ignored; echo nope", "test", 1, testTable("echo"), 0)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	cmds := list.Commands()
	if len(cmds) != 1 || strings.Join(cmds[0].Args, " ") != "hi" {
		t.Fatalf("parsed = %q, want single echo hi", list.String())
	}
}

func TestLineCommentOnlyIsEmpty(t *testing.T) {
	_, err := Line("# nothing here", "test", 3, testTable("echo"), 0)
	if !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("error = %v, want ErrEmptyCommand", err)
	}
}

func TestLineUnknownCommand(t *testing.T) {
	_, err := Line("frobnicate", "muxd.conf", 7, testTable("echo"), 0)
	if err == nil || !strings.Contains(err.Error(), "unknown command: frobnicate") {
		t.Fatalf("error = %v, want unknown command", err)
	}
	if !strings.HasPrefix(err.Error(), "muxd.conf:7:") {
		t.Fatalf("error = %v, want file:line prefix", err)
	}
}

func TestLineUnterminatedQuote(t *testing.T) {
	_, err := Line(`echo "oops`, "test", 1, testTable("echo"), 0)
	if !errors.Is(err, ErrUnterminatedQuote) {
		t.Fatalf("error = %v, want ErrUnterminatedQuote", err)
	}
}

func TestLineStampsProvenanceAndFlags(t *testing.T) {
	list, err := Line("echo x", "muxd.conf", 42, testTable("echo"), cmdq.FlagControl)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	cmd := list.Commands()[0]
	if cmd.File != "muxd.conf" || cmd.Line != 42 {
		t.Fatalf("provenance = %s:%d, want muxd.conf:42", cmd.File, cmd.Line)
	}
	if cmd.Flags&cmdq.FlagControl == 0 {
		t.Fatalf("flags = %v, want control flag set", cmd.Flags)
	}
}
