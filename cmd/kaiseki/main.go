// Package main is the Kaiseki CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/analyzer"
	"github.com/hyperjump/kaiseki/internal/cli"
	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/engine"
	"github.com/hyperjump/kaiseki/internal/history"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/server"
	"github.com/hyperjump/kaiseki/internal/watcher"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kaiseki/config.yaml"

// indexSeedLimit caps how many stored queries are loaded into the related
// query index at startup.
const indexSeedLimit = 500

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "kaiseki server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "history":
		runHistory()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kaiseki version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (analyze requests, table reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Analyzer.TablesPath != "" {
		eng := components.Engine
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		tablesWatch := watcher.NewWatcher(cfg.Analyzer.TablesPath, func(path string) {
			tables, loadErr := config.LoadTables(path)
			if loadErr != nil {
				logger.Warn("tables reload skipped", zap.String("path", path), zap.Error(loadErr))
				return
			}
			if reloadErr := eng.Reload(tables); reloadErr != nil {
				logger.Warn("tables reload failed", zap.String("path", path), zap.Error(reloadErr))
			}
		}, watchOpts...)
		if err := tablesWatch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start tables watcher", zap.Error(err))
		}
		defer tablesWatch.Stop()
	}

	srv := server.NewServer(components.Engine, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(raw string) (cli.OutputFormat, error) {
	switch raw {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", raw)
	}
}

func printAnalyzeUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: kaiseki analyze [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  kaiseki analyze what is our q4 sales performance
  kaiseki analyze "how do I reset my password"
  kaiseki analyze --department engineering "deployment runbook"
  kaiseki analyze --output json budget forecast        # structured JSON for other apps
  kaiseki analyze --server "" offline query            # direct mode, no server needed
`)
}

func runAnalyze() {
	analyzeArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8085", "server URL (empty = analyze locally without a server)")
	department := fs.String("department", "", "department context for scoping")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printAnalyzeUsage(fs) }
	_ = fs.Parse(analyzeArgs)

	if fs.NArg() < 1 {
		printAnalyzeUsage(fs)
		os.Exit(1)
	}
	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		printAnalyzeUsage(fs)
		os.Exit(1)
	}

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	req := &models.AnalyzeRequest{Query: queryStr}
	if *department != "" {
		req.Context = &models.QueryContext{Department: *department}
	}

	if *serverURL != "" {
		// Use the HTTP API when a server is running (shares its history database).
		response, err := analyzeViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analyze failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnalysis(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct mode (no server running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	response, err := components.Engine.Analyze(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analyze failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnalysis(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func analyzeViaHTTP(serverURL string, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8085", "server URL (empty = read the history database directly)")
	department := fs.String("department", "", "only show queries scoped to this department")
	limit := fs.Int("limit", 10, "number of entries")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		records, err := historyViaHTTP(*serverURL, *department, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "History failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteHistory(os.Stdout, records, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := history.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	var records []*models.QueryRecord
	if *department != "" {
		records, err = store.RecentByDepartment(ctx, *department, *limit)
	} else {
		records, err = store.Recent(ctx, *limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "History failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteHistory(os.Stdout, records, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func historyViaHTTP(serverURL, department string, limit int) ([]*models.QueryRecord, error) {
	params := url.Values{}
	if department != "" {
		params.Set("department", department)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	endpoint := serverURL + "/api/v1/history/recent"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	resp, err := http.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Queries []*models.QueryRecord `json:"queries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Queries, nil
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	QueriesAnalyzed int64 `json:"queries_analyzed"`
	UptimeSeconds   int64 `json:"uptime_seconds"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8085", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	if format == cli.OutputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(status)
		return
	}
	fmt.Printf("Queries analyzed: %d\n", status.QueriesAnalyzed)
	fmt.Printf("Uptime: %ds\n", status.UptimeSeconds)
}

// Components holds initialized services.
type Components struct {
	Store  *history.Store
	Index  *history.Index
	Engine *engine.Engine
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	a, err := newAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history storage: %w", err)
	}

	index, err := history.NewIndex()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize related query index: %w", err)
	}

	// Seed the in-memory index from stored history so related queries
	// survive restarts.
	recent, err := store.Recent(context.Background(), indexSeedLimit)
	if err != nil {
		logger.Warn("related index seed skipped", zap.Error(err))
	} else {
		for _, rec := range recent {
			if addErr := index.Add(rec.ID, rec.Query, rec.Department); addErr != nil {
				logger.Warn("related index seed entry failed", zap.String("id", rec.ID), zap.Error(addErr))
			}
		}
		logger.Info("related query index seeded", zap.Int("entries", len(recent)))
	}

	eng := engine.NewEngine(a, store, index, &cfg.Analyzer, logger)
	return &Components{Store: store, Index: index, Engine: eng}, nil
}

// newAnalyzer builds the analyzer from the configured tables file, or the
// built-in tables when none is configured.
func newAnalyzer(cfg *config.Config) (*analyzer.Analyzer, error) {
	if cfg.Analyzer.TablesPath == "" {
		return analyzer.NewDefault(), nil
	}
	tables, err := config.LoadTables(cfg.Analyzer.TablesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyzer tables: %w", err)
	}
	compiled, err := analyzer.Compile(tables)
	if err != nil {
		return nil, fmt.Errorf("failed to compile analyzer tables: %w", err)
	}
	return analyzer.New(compiled), nil
}

func printUsage() {
	fmt.Println(`kaiseki - Query intelligence engine for workplace search

Usage:
  kaiseki server [flags]            Start the HTTP server
  kaiseki analyze [flags] <query>   Analyze a query
  kaiseki history [flags]           Show recently analyzed queries
  kaiseki status [flags]            Show server status
  kaiseki version                   Show version
  kaiseki help                      Show this help

Server Flags:
  --config string      Config file path (default: /usr/local/etc/kaiseki/config.yaml)
  --debug              Enable debug logging (analyze requests, table reloads, etc.)

Analyze Flags:
  --config string      Config file path (for direct mode)
  --server string      Server URL (default: http://localhost:8085). Use empty (--server "") to analyze locally.
  --department string  Department context for scoping
  --output string      Output format: text or json (default: text)

History Flags:
  --config string      Config file path (for direct mode)
  --server string      Server URL (default: http://localhost:8085). Use empty (--server "") to read the database directly.
  --department string  Only show queries scoped to this department
  --limit int          Number of entries (default: 10)
  --output string      Output format: text or json (default: text)

Status Flags:
  --server string      Server URL (default: http://localhost:8085)
  --output string      Output format: text or json (default: text)

Examples:
  kaiseki server
  kaiseki analyze what is our q4 sales performance
  kaiseki analyze --department engineering "deployment runbook"
  kaiseki analyze --output json budget forecast
  kaiseki history --department sales --limit 20
  kaiseki status`)
}
