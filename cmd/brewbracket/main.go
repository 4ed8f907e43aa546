package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kpalsson/brewbracket/internal/app"
	"github.com/kpalsson/brewbracket/internal/auth"
	"github.com/kpalsson/brewbracket/internal/logger"
	"github.com/kpalsson/brewbracket/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// showLogo prints the BrewBracket banner
func showLogo() {
	width := 62
	border := ""
	for i := 0; i < width; i++ {
		border += "═"
	}

	logo := []string{
		" ____                      ____                 _        _   ",
		"| __ ) _ __ _____      __ | __ ) _ __ __ _  ___| | _____| |_ ",
		"|  _ \\| '__/ _ \\ \\ /\\ / / |  _ \\| '__/ _` |/ __| |/ / _ \\ __|",
		"| |_) | | |  __/\\ V  V /  | |_) | | | (_| | (__|   <  __/ |_ ",
		"|____/|_|  \\___| \\_/\\_/   |____/|_|  \\__,_|\\___|_|\\_\\___|\\__|",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		for len([]rune(line)) < width {
			line += " "
		}
		fmt.Printf("  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string

	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sa%s      - Open admin page in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug, info, warn, error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "brewbracket.db", "SQLite database path")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `BrewBracket - Coffee Competition Tournament Manager

Usage:
  brewbracket [options]

Options:
  -port int      HTTP server port (default 8080)
  -db string     SQLite database path (default "brewbracket.db")
  -adminpw str   Admin password (auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Keyboard Shortcuts (when enabled):
  a              Open admin page in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug, info, warn, error)
  q              Quit server
  ?              Show keyboard help

Examples:
  brewbracket                          # Run on port 8080 with brewbracket.db
  brewbracket -port 8081               # Run on port 8081
  brewbracket -db /data/throwdown.db   # Use custom database path
  brewbracket -adminpw secret123       # Use specific admin password
  brewbracket -nokeyboard              # Disable keyboard shortcuts

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("brewbracket %s\n", version)
		os.Exit(0)
	}

	showLogo()

	// Setup admin authentication
	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	// Create logger with specified level
	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	a, err := app.New(appLog, *dbPath, web.GetTemplatesFS(), web.GetStaticFS(), adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Admin password", "password", password)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	adminURL := fmt.Sprintf("http://localhost:%d/admin", *port)

	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(adminURL, appLog)
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	if err := <-serverErr; err != nil {
		log.Fatal(err)
	}
}
