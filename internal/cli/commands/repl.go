package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"github.com/spf13/cobra"
)

const replPrompt = "leapdash> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Ask questions interactively",
		Long: `Start an interactive session. Each line is submitted as a question and the
result is printed when it settles. History is kept for the session only.

Dot commands:
  .help              Show help
  .history           List the questions asked so far
  .replay <n|id>     Show a previous result again (n counts from 1, newest first)
  .suggest [text]    List suggestions matching text
  .topics            List the topics questions are matched against
  .explain <text>    Show which topic text would match
  .clear             Clear the screen
  .quit / .exit      Leave the REPL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(cc.Cfg.HistoryFile),
		AutoComplete:    newREPLCompleter(cc.Store().Snapshot().Suggestions),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	return replLoop(cmd, cc, rl.Readline)
}

// replLoop reads lines until EOF or .quit. It is separate from runREPL so
// tests can feed lines without a terminal.
func replLoop(cmd *cobra.Command, cc *CommandContext, readLine func() (string, error)) error {
	r := cc.Renderer
	r.Println("LeapDash REPL")
	r.Println("Ask a question, or type .help for commands, .quit to exit")
	r.Println()

	for {
		line, err := readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cc, line); quit {
				return nil
			}
			continue
		}

		outcome, err := ask(cmd.Context(), cc.Controller, line)
		if err != nil {
			r.Error(err.Error())
			continue
		}
		if err := r.Result(*outcome.Result); err != nil {
			return err
		}
		r.Println()
	}
}

// handleDotCommand runs a dot command and reports whether the REPL
// should exit.
func handleDotCommand(cmd *cobra.Command, cc *CommandContext, line string) bool {
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	r := cc.Renderer

	switch strings.ToLower(command) {
	case ".quit", ".exit":
		return true

	case ".help":
		r.Println(cmd.Long)

	case ".history":
		if err := r.History(cc.Store().Snapshot().History); err != nil {
			r.Error(err.Error())
		}

	case ".replay":
		if arg == "" {
			r.Error("Usage: .replay <n|id>")
			return false
		}
		id := resolveHistoryRef(cc.Store().Snapshot().History, arg)
		if !cc.Controller.Replay(id) {
			r.Error(fmt.Sprintf("No history entry %q", arg))
			return false
		}
		st := cc.Store().Snapshot()
		if st.Results == nil {
			r.Muted(fmt.Sprintf("%q has no result yet", st.CurrentQuery))
			return false
		}
		if err := r.Result(*st.Results); err != nil {
			r.Error(err.Error())
		}

	case ".suggest":
		if err := r.Suggestions(query.FilterSuggestions(cc.Store().Snapshot().Suggestions, arg)); err != nil {
			r.Error(err.Error())
		}

	case ".topics":
		if err := renderTopics(r); err != nil {
			r.Error(err.Error())
		}

	case ".explain":
		if arg == "" {
			r.Error("Usage: .explain <text>")
			return false
		}
		explain(cc, arg)

	case ".clear":
		r.Printf("\033[H\033[2J")

	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

// resolveHistoryRef maps a 1-based position (newest first) to an entry id.
// Anything else is taken as an id.
func resolveHistoryRef(history []core.HistoryEntry, ref string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(history) {
		return history[n-1].ID
	}
	return ref
}

// historyFile returns the readline history path: the configured one, or
// ~/.leapdash_history. Readline history is separate from query history,
// which is never persisted.
func historyFile(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".leapdash_history")
}

// newREPLCompleter completes dot commands and suggestions.
func newREPLCompleter(suggestions []string) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(suggestions)+8)
	for _, s := range suggestions {
		items = append(items, readline.PcItem(s))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".history"),
		readline.PcItem(".replay"),
		readline.PcItem(".suggest"),
		readline.PcItem(".topics"),
		readline.PcItem(".explain"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
