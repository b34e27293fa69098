// Package shell is a minimal REPL for `dirtrun run --shell APP`: a thin
// line reader over promptui (grounded in marmos91-dittofs's
// internal/cli/prompt package), not a full Python-repl equivalent (§6,
// "interactive shell").
package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/Montana/dirt/help"
	"github.com/Montana/dirt/rpc"
	"github.com/Montana/dirt/supervisor"
)

// exitWords are the bare lines that end the REPL instead of being parsed as
// a call.
var exitWords = []string{"exit", "quit"}

// errAborted mirrors the teacher's own ErrAborted, collapsing promptui's
// interrupt/abort errors into one sentinel the caller can check for.
var errAborted = errors.New("shell: aborted")

func isAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, errAborted)
}

// Run drives the REPL against handle, printing prompts to out and reading
// lines via promptui until the user aborts (Ctrl+D/Ctrl+C) or types "exit".
// A line is `dotted.name(arg1, arg2, key=value, ...)`; arguments are parsed
// as JSON scalars (numbers, strings, booleans, null) falling back to bare
// strings for anything that doesn't parse as JSON.
func Run(appName string, handle supervisor.APIHandle, out io.Writer) error {
	fmt.Fprintf(out, "dirtrun shell — %s (type a dotted call, e.g. debug.ping(), or %s)\n", appName, help.JoinStrings(exitWords, "/"))
	for {
		prompt := promptui.Prompt{Label: appName}
		line, err := prompt.Run()
		if err != nil {
			if isAborted(err) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if help.Contains(exitWords, line) {
			return nil
		}

		name, args, kwargs, perr := parseLine(line)
		if perr != nil {
			fmt.Fprintf(out, "parse error: %v\n", perr)
			continue
		}

		value, seq, err := handle.Call(name, args, kwargs)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if seq != nil {
			printSequence(out, seq)
			continue
		}
		printValue(out, value)
	}
}

func printValue(out io.Writer, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		fmt.Fprintf(out, "=> %v\n", value)
		return
	}
	fmt.Fprintf(out, "=> %s\n", b)
}

func printSequence(out io.Writer, seq rpc.Sequence) {
	for {
		v, ok, err := seq.Next()
		if err != nil {
			fmt.Fprintf(out, "stream error: %v\n", err)
			return
		}
		if !ok {
			return
		}
		printValue(out, v)
	}
}

// parseLine splits "name(a, b, key=value)" into its dotted name, positional
// args and keyword args. The shell is deliberately forgiving: a bare
// "name" with no parens is treated as a zero-arg call.
func parseLine(line string) (name string, args []any, kwargs map[string]any, err error) {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return line, nil, nil, nil
	}
	if !strings.HasSuffix(line, ")") {
		return "", nil, nil, fmt.Errorf("missing closing ')'")
	}
	name = strings.TrimSpace(line[:open])
	if name == "" {
		return "", nil, nil, fmt.Errorf("missing call name")
	}
	inner := strings.TrimSpace(line[open+1 : len(line)-1])
	kwargs = map[string]any{}
	if inner == "" {
		return name, nil, kwargs, nil
	}
	for _, part := range splitArgs(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if eq := strings.IndexByte(part, '='); eq > 0 && !strings.HasPrefix(part, "\"") {
			key := strings.TrimSpace(part[:eq])
			kwargs[key] = parseScalar(strings.TrimSpace(part[eq+1:]))
			continue
		}
		args = append(args, parseScalar(part))
	}
	return name, args, kwargs, nil
}

// splitArgs splits on top-level commas only, ignoring commas inside quotes.
func splitArgs(s string) []string {
	var parts []string
	var b strings.Builder
	inQuote := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == ',' && !inQuote:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	parts = append(parts, b.String())
	return parts
}

func parseScalar(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
