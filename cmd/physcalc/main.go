package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dnswlt/physcalc"
)

const version = "0.3"

var (
	exactMode    bool
	outputFormat string
	loadPacks    string
	historyFile  string
	evalExpr     string
	showVersion  bool
)

func init() {
	home, _ := os.UserHomeDir()
	defaultHistory := ""
	if home != "" {
		defaultHistory = filepath.Join(home, ".physcalc_history")
	}
	flag.BoolVar(&exactMode, "exact", false, "start in exact mode (same as !toggle frac)")
	flag.StringVar(&outputFormat, "format", "text", "output format: text, json or yaml")
	flag.StringVar(&loadPacks, "load", "", "comma separated list of packs to load, e.g. phys,chem")
	flag.StringVar(&historyFile, "history", defaultHistory, "file to append input lines to, empty to disable")
	flag.StringVar(&evalExpr, "e", "", "evaluate expression, print the result and exit")
	flag.BoolVar(&showVersion, "version", false, "show the version and exit")
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func appendHistory(line string) {
	if historyFile == "" {
		return
	}
	f, err := os.OpenFile(historyFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		log.Printf("cannot write history: %v", err)
		historyFile = ""
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}

func repl(s *physcalc.Session, write physcalc.ResultWriter) error {
	interactive := isTerminal(os.Stdin)
	if interactive {
		fmt.Printf("ρhysCalc REPL %s\nType !help for help\n", version)
	}
	sc := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			n := s.Ctx().History.Len()
			fmt.Print(strings.Repeat(" ", len(fmt.Sprint(n))) + " > ")
		}
		if !sc.Scan() {
			if interactive {
				fmt.Println()
			}
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		appendHistory(line)
		if strings.HasPrefix(line, "!") {
			err := s.Command(line, os.Stdout)
			if errors.Is(err, physcalc.ErrExit) {
				return nil
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
			}
			continue
		}
		res, err := s.EvalLine(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, physcalc.FormattedError(line, err))
			continue
		}
		if err := write(os.Stdout, res); err != nil {
			return err
		}
	}
}

func run() error {
	flag.Parse()
	if showVersion {
		fmt.Printf("ρhysCalc %s\n", version)
		return nil
	}
	if len(flag.Args()) > 1 {
		return fmt.Errorf("expected at most one script file, got %d", len(flag.Args()))
	}
	write, err := physcalc.NewResultWriter(outputFormat)
	if err != nil {
		return err
	}
	s := physcalc.NewSession()
	s.SetResultWriter(write)
	if exactMode {
		if _, err := s.Toggle(physcalc.FeatureFrac); err != nil {
			return err
		}
	}
	if loadPacks != "" {
		for _, name := range strings.Split(loadPacks, ",") {
			if _, err := s.LoadPack(strings.TrimSpace(name)); err != nil {
				return err
			}
		}
	}
	if evalExpr != "" {
		res, err := s.EvalLine(evalExpr)
		if err != nil {
			return physcalc.FormattedError(evalExpr, err)
		}
		return write(os.Stdout, res)
	}
	if len(flag.Args()) == 1 {
		filename := flag.Arg(0)
		f, err := os.Open(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		return s.RunScript(filename, f, os.Stdout)
	}
	return repl(s, write)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("physcalc: ")
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
