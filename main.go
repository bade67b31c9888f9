package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/korjavin/repotrivia/bot"
	"github.com/korjavin/repotrivia/catalog"
	"github.com/korjavin/repotrivia/config"
	"github.com/korjavin/repotrivia/database"
	"github.com/korjavin/repotrivia/github"
	"github.com/korjavin/repotrivia/quiz"
	"github.com/korjavin/repotrivia/tui"
)

// terminalUserID keys the single local player in the journal
const terminalUserID = 0

func main() {
	// Configure logging
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Mode == config.ModeTerminal {
		// Keep log lines off the alternate screen
		logFile, err := openLogFile(cfg.LogPath)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	log.Printf("Starting Repo Trivia in %s mode...", cfg.Mode)

	questions, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load questions: %v", err)
	}
	questionCatalog, err := quiz.NewCatalog(questions)
	if err != nil {
		log.Fatalf("Invalid question catalog %s: %v", cfg.CatalogPath, err)
	}
	log.Printf("Loaded %d questions", questionCatalog.Len())

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	stars := github.NewClient(cfg.GitHubAPIURL)
	if cfg.GitHubToken == "" {
		log.Println("GITHUB_TOKEN not set, bookmarking is disabled")
	}

	sessions, err := quiz.NewManager(questionCatalog, nil, db.Observe())
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	switch cfg.Mode {
	case config.ModeTerminal:
		session, _, err := sessions.GetOrStart(terminalUserID)
		if err != nil {
			log.Fatalf("Failed to start session: %v", err)
		}
		opts := tui.Options{
			NoColor:     os.Getenv("NO_COLOR") != "",
			GitHubToken: cfg.GitHubToken,
			Stars:       stars,
		}
		if err := tui.Run(session, os.Stdin, os.Stdout, opts); err != nil {
			log.Printf("Terminal UI failed: %v", err)
		}
		summary := session.Summary()
		log.Printf("Session %s finished: %d correct of %d answered", session.ID(), summary.Score, summary.TotalAnswered)
	default:
		b, err := bot.New(cfg, sessions, db, stars)
		if err != nil {
			log.Fatalf("Failed to initialize bot: %v", err)
		}
		log.Println("Bot initialized successfully")
		b.Start()
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
