package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"depversion/internal/config"
	"depversion/internal/engine"
	"depversion/internal/flags"
	gh "depversion/internal/github"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const rootLong = `depversion lists every repository of a GitHub user or organization, reads
each repository's package.json and reports which ones declare <dependency>
(in dependencies or devDependencies) and at which version range.

Repositories whose manifest could not be read are listed separately. A
missing package.json and an empty repository are not reported.

Authentication:
	--token is required. When it is omitted the token is taken from
	GITHUB_TOKEN, then GH_TOKEN, then "gh auth token". A .env file in the
	working directory is loaded first.

Flags may also be spelled with a single dash (-user=octocat -org).

Exit codes:
	0 = report completed (per-repository failures included)
	2 = usage or configuration error (nothing was requested)
	3 = fatal error (listing failed or the report could not be written)

Examples:
	depversion octocat lodash --user=octocat --token="$GITHUB_TOKEN"
	depversion https://github.com/orgs/acme react -user=me -org -branch=develop
	depversion acme typescript --user=me --format=json --out=report.json`

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	cfg := config.New()
	code := engine.ExitOK
	rootCmd := newRootCmd(cfg, stdout, stderr, &code)
	rootCmd.SetIn(stdin)
	if len(args) > 1 {
		rootCmd.SetArgs(normalizeLegacyArgs(args[1:]))
	} else {
		rootCmd.SetArgs([]string{})
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", rootCmd.Name())
		return engine.ExitConfig
	}
	return code
}

func newRootCmd(cfg *config.Config, stdout, stderr io.Writer, code *int) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "depversion <account> <dependency>",
		Short:         "Report which repositories of a GitHub account depend on a package",
		Long:          rootLong,
		Args:          cobra.MaximumNArgs(2),
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.WarnLevel
			if cfg.Runtime.Verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Targeting.Account = args[0]
			}
			if len(args) > 1 {
				cfg.Targeting.Dependency = args[1]
			}
			*code = execute(cmd.Context(), cfg, stdout, stderr)
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// MAINTAINER NOTE: keep internal/flags.Long in sync with the flags below.
	f := rootCmd.Flags()

	// Auth
	f.StringVar(&cfg.Auth.User, flags.FlagUser, "", "GitHub user name, sent as the User-Agent (required)")
	f.StringVar(&cfg.Auth.Token, flags.FlagToken, "", "GitHub access token (required; falls back to GITHUB_TOKEN, GH_TOKEN, gh auth token)")
	f.StringVar(&cfg.Auth.Mode, flags.FlagAuth, cfg.Auth.Mode, "How the token is sent: query|header")
	f.StringVar(&cfg.Auth.APIURL, flags.FlagAPIURL, "", "GitHub REST API base URL (default: https://api.github.com/)")

	// Targeting
	f.Var(looseBool{&cfg.Targeting.Org}, flags.FlagOrg, "Treat <account> as an organization (any value other than false enables it)")
	f.Lookup(flags.FlagOrg).NoOptDefVal = "true"
	f.StringVar(&cfg.Targeting.Branch, flags.FlagBranch, "", "Read package.json from this branch, tag or SHA (default: each repository's default branch)")
	f.BoolVar(&cfg.Targeting.Peer, flags.FlagPeer, false, "Also consult peerDependencies")
	f.StringSliceVar(&cfg.Targeting.Include, flags.FlagInclude, nil, "Include pattern(s) (repeatable; comma-separated accepted). Go path.Match style; if pattern contains '/', matches OWNER/REPO, else matches repo name")
	f.StringSliceVar(&cfg.Targeting.Exclude, flags.FlagExclude, nil, "Exclude pattern(s) (repeatable; comma-separated accepted). Same matching rules as --include")
	f.StringVar(&cfg.Targeting.Archived, flags.FlagArchived, cfg.Targeting.Archived, "Archived repos policy: include|exclude|only")
	f.StringVar(&cfg.Targeting.Forks, flags.FlagForks, cfg.Targeting.Forks, "Forks policy: include|exclude|only")
	f.IntVar(&cfg.Targeting.MaxRepos, flags.FlagMaxRepos, 0, "Maximum number of repositories to inspect (0 = unlimited)")

	// Output
	f.StringVar(&cfg.Output.Format, flags.FlagFormat, cfg.Output.Format, "Console output format: text|json")
	f.StringVar(&cfg.Output.Out, flags.FlagOut, "", "Also write the JSON report to this path")

	// Runtime
	f.IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Maximum concurrent package.json requests")
	f.DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Timeout for the whole run")
	f.BoolVarP(&cfg.Runtime.Verbose, flags.FlagVerbose, "v", false, "Log every GitHub API call and full error details to stderr")

	return rootCmd
}

func execute(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	logger := loggerFromContext(ctx)

	if cfg.Auth.Token == "" {
		token, source, err := gh.ResolveAuthToken(ctx, "")
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to resolve GitHub auth token: %v\n", err)
			return engine.ExitConfig
		}
		if token != "" {
			logger.Debug("resolved auth token", "source", source)
		}
		cfg.Auth.Token = token
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return engine.ExitConfig
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	opts := []gh.Option{
		gh.WithUserAgent(cfg.Auth.User),
		gh.WithAuthMode(cfg.Auth.Mode),
		gh.WithLogger(logger),
	}
	if cfg.Auth.APIURL != "" {
		opts = append(opts, gh.WithBaseURL(cfg.Auth.APIURL))
	}
	client, err := gh.NewClient(ctx, cfg.Auth.Token, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create GitHub client: %v\n", err)
		return engine.ExitFatal
	}

	eng := engine.NewEngine(client, logger, stdout, stderr)
	return eng.Run(ctx, cfg)
}
