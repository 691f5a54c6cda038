// Command quiz runs a quiz for one participant in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/bank"
	"github.com/mind-engage/safety-quiz/internal/config"
	"github.com/mind-engage/safety-quiz/internal/notify"
	"github.com/mind-engage/safety-quiz/internal/pipeline"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/results"
	"github.com/mind-engage/safety-quiz/internal/storage"
	"github.com/mind-engage/safety-quiz/internal/ui/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg := config.Load()
	fs := flag.NewFlagSet("quiz", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bankID := fs.String("bank", "", "question bank id (file name in BANKS_DIR without extension)")
	noLogin := fs.Bool("no-login", false, "skip the login screen")
	noColor := fs.Bool("no-color", false, "disable colors")
	logFile := fs.String("log", "", "write logs to this file instead of discarding them")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// the UI owns the terminal
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "log file: %v\n", err)
			return 1
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cat := bank.NewCatalog(cfg.BanksDir)
	if *bankID == "" {
		ids, err := cat.List()
		if err != nil || len(ids) == 0 {
			fmt.Fprintf(stderr, "no question banks in %s\n", cfg.BanksDir)
			return 1
		}
		*bankID = ids[0]
	}
	b, err := cat.Load(*bankID)
	if err != nil {
		fmt.Fprintf(stderr, "bank: %v\n", err)
		return 1
	}

	opts := tui.Options{
		Bank:         b,
		DefaultCount: cfg.DefaultQuestionCount,
		NoColor:      *noColor,
		LocalGrader:  quiz.Grader{Username: localUser(), Role: "trainer"},
	}
	if !*noLogin {
		dir, err := auth.LoadDirectory(cfg.CredentialsFile)
		if err != nil {
			fmt.Fprintf(stderr, "credentials: %v (use -no-login for a local run)\n", err)
			return 1
		}
		opts.Directory = dir
	}

	sink, err := results.Open(cfg.ResultsPath)
	if err != nil {
		fmt.Fprintf(stderr, "results: %v\n", err)
		return 1
	}
	bs, err := storage.NewFSStore(cfg.ArtifactsDir)
	if err != nil {
		fmt.Fprintf(stderr, "artifacts: %v\n", err)
		return 1
	}
	opts.Pipeline = pipeline.New(bs, sink, notify.New(cfg), cfg.Recipients, cfg.BadgeVerifyURL)

	if _, err := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(stderr, "quiz: %v\n", err)
		return 1
	}
	return 0
}

func localUser() string {
	for _, k := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return "locale"
}
