package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"depversion/internal/config"
	"depversion/internal/output"
	"depversion/internal/report"

	"github.com/charmbracelet/log"
)

// Exit codes. Per-repository failures are part of a completed report and do
// not change the code.
const (
	ExitOK     = 0
	ExitConfig = 2
	ExitFatal  = 3
)

// Forge is the slice of the GitHub client a run needs.
type Forge interface {
	RepoLister
	ManifestFetcher
}

type Engine struct {
	Client Forge
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer
}

func NewEngine(client Forge, logger *log.Logger, stdout, stderr io.Writer) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Engine{Client: client, Logger: logger, Stdout: stdout, Stderr: stderr}
}

// Scan lists the account, fetches every manifest and extracts the report.
// Only a listing failure is returned as an error.
func (e *Engine) Scan(ctx context.Context, cfg *config.Config) (report.Result, error) {
	t := cfg.Targeting
	result := report.Result{Account: t.Account, Dependency: t.Dependency}

	e.Logger.Info("listing repositories", "account", t.Account, "org", t.Org)
	repos, err := ResolveRepos(ctx, e.Client, t.Account, t.Org)
	if err != nil {
		return result, err
	}
	listed := len(repos)
	repos = FilterRepos(repos, t)
	e.Logger.Info("found repositories", "listed", listed, "selected", len(repos))

	agg, err := NewAggregator(e.Client, t.Branch, cfg.Runtime.Concurrency)
	if err != nil {
		return result, err
	}
	fetched := agg.Aggregate(ctx, repos)

	deps, decodeFailures := ExtractWith(t.Dependency, fetched.Successes, ExtractOptions{Peer: t.Peer})

	result.Report = deps
	result.Failures = append(fetched.Failures, decodeFailures...)
	result.Scanned = len(repos)

	for _, f := range result.Failures {
		e.Logger.Debug("repository failed", "repo", f.RepoName, "status", f.StatusCode, "message", f.Message, "err", f.Err)
	}
	e.Logger.Info("scan finished", "dependents", len(deps), "failures", len(result.Failures))
	return result, nil
}

func (e *Engine) setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	console, err := output.NewConsoleSink(e.Stdout, cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	if err := outMgr.AddSink(console); err != nil {
		return nil, err
	}

	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out)
		if err != nil {
			_ = outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}
	return outMgr, nil
}

// Run performs a full scan and renders it. It returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	outMgr, err := e.setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error creating output sinks: %v\n", err)
		return ExitFatal
	}

	result, err := e.Scan(ctx, cfg)
	if err != nil {
		_ = outMgr.Close()
		fmt.Fprintf(e.Stderr, "Error: %v\n", err)
		return ExitFatal
	}

	writeErr := outMgr.Write(result)
	closeErr := outMgr.Close()
	if writeErr != nil {
		fmt.Fprintf(e.Stderr, "Error writing report: %v\n", writeErr)
		return ExitFatal
	}
	if closeErr != nil {
		fmt.Fprintf(e.Stderr, "Error writing report: %v\n", closeErr)
		return ExitFatal
	}
	return ExitOK
}
