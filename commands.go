package physcalc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// ErrExit is returned by Command for !exit and !quit.
var ErrExit = errors.New("exit")

var indexArgRegexp = regexp.MustCompile(`^\[?(\d+)\]?$`)

// Command executes a !command line and writes its output to out.
// Arguments are split like a shell would, so file names may be quoted.
func (s *Session) Command(line string, out io.Writer) error {
	args, err := shlex.Split(strings.TrimPrefix(line, "!"))
	if err != nil {
		return chainError(err, "invalid command %q", line)
	}
	if len(args) == 0 {
		return fmt.Errorf("empty command, see !help commands")
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "help":
		topic := ""
		if len(args) > 0 {
			topic = args[0]
		}
		h, err := Help(topic)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, h)
	case "as":
		return s.cmdAs(args, out)
	case "load":
		if len(args) == 0 {
			return fmt.Errorf("usage: !load PACK..., available packs: %s", strings.Join(PackNames(), ", "))
		}
		for _, name := range args {
			p, err := s.LoadPack(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Loaded %s (%d units, %d constants).\n", p.Name, len(p.Units), len(p.Constants))
		}
	case "vars":
		for _, v := range s.Vars(len(args) > 0 && args[0] == "all") {
			fmt.Fprintln(out, v)
		}
	case "reset":
		s.Reset()
		fmt.Fprintln(out, "Variables and history cleared.")
	case "clear":
		s.ClearHistory()
		fmt.Fprintln(out, "History cleared.")
	case "toggle":
		if len(args) != 1 {
			return fmt.Errorf("usage: !toggle FEATURE, features: %s", strings.Join(Features(), ", "))
		}
		on, err := s.Toggle(args[0])
		if err != nil {
			return err
		}
		state := "off"
		if on {
			state = "on"
		}
		fmt.Fprintf(out, "Toggled %s %s.\n", args[0], state)
	case "source":
		if len(args) != 1 {
			return fmt.Errorf("usage: !source FILE")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return s.RunScript(args[0], f, out)
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command !%s, see !help commands", cmd)
	}
	return nil
}

// cmdAs implements "!as UNIT [n]". The unit may span several arguments, like "!as N m".
func (s *Session) cmdAs(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: !as UNIT [n]")
	}
	index := 0
	if m := indexArgRegexp.FindStringSubmatch(args[len(args)-1]); m != nil && len(args) > 1 {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("invalid result index %q", args[len(args)-1])
		}
		index = n
		args = args[:len(args)-1]
	}
	res, err := s.Convert(strings.Join(args, " "), index)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res)
	return nil
}
