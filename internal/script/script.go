// Package script runs line-based panel scenarios against a coordinator and
// records what happened. It backs the trace command and doubles as a
// fixture format for tests.
//
// One command per line; blank lines and lines starting with # are ignored.
//
//	page scrollable|fixed
//	bind <id> [overlay=bool] [position=pos] [closeOnEscape=bool] [closeOnOverlay=bool] [class=name]
//	open <id> [payload]
//	close [id]
//	toggle <id>
//	set <id> <option> <value>
//	veto <event> [id]
//	allow <event> [id]
//	key <name>
//	click <wrapper|content|close|trigger> <id>
//	destroy <id>
//	flush
//	idle
//	expect active <id|none>
//	expect overlay on|off
//	expect padding <n>
//	expect class <id> <class>
//	expect state <id> <state>
package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Command is one parsed line
type Command struct {
	Line int
	Name string
	Args []string
	// Params holds key=value arguments, in addition to Args
	Params map[string]string
}

func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	for _, k := range sortedKeys(c.Params) {
		parts = append(parts, k+"="+c.Params[k])
	}
	return strings.Join(parts, " ")
}

// ParseError reports a malformed line
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

var arity = map[string][2]int{
	"page":    {1, 1},
	"bind":    {1, 1},
	"open":    {1, 2},
	"close":   {0, 1},
	"toggle":  {1, 1},
	"set":     {3, 3},
	"veto":    {1, 2},
	"allow":   {1, 2},
	"key":     {1, 1},
	"click":   {2, 2},
	"destroy": {1, 1},
	"flush":   {0, 0},
	"idle":    {0, 0},
	"expect":  {2, 3},
}

// Parse reads every command from r
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := parseLine(line, text)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

func parseLine(line int, text string) (Command, error) {
	fields := strings.Fields(text)
	cmd := Command{Line: line, Name: strings.ToLower(fields[0])}

	for _, f := range fields[1:] {
		// set takes a literal value argument, which may contain '='
		if k, v, ok := strings.Cut(f, "="); ok && cmd.Name == "bind" {
			if cmd.Params == nil {
				cmd.Params = make(map[string]string)
			}
			cmd.Params[k] = v
			continue
		}
		cmd.Args = append(cmd.Args, f)
	}

	bounds, ok := arity[cmd.Name]
	if !ok {
		return cmd, &ParseError{Line: line, Msg: fmt.Sprintf("unknown command %q", cmd.Name)}
	}
	if n := len(cmd.Args); n < bounds[0] || n > bounds[1] {
		return cmd, &ParseError{Line: line, Msg: fmt.Sprintf("%s takes %s arguments, got %d", cmd.Name, argRange(bounds), n)}
	}
	return cmd, nil
}

func argRange(b [2]int) string {
	if b[0] == b[1] {
		return fmt.Sprint(b[0])
	}
	return fmt.Sprintf("%d-%d", b[0], b[1])
}
