// Package flags defines canonical CLI flag names shared across the CLI and
// config validation messages.
// IMPORTANT: These are flag *names* without leading dashes. The CLI accepts
// both "--name=value" and the single-dash "-name=value" spelling.
package flags

const (
	// Auth
	FlagUser  = "user"
	FlagToken = "token"
	FlagAuth  = "auth"

	// Targeting
	FlagOrg      = "org"
	FlagBranch   = "branch"
	FlagPeer     = "peer"
	FlagInclude  = "include"
	FlagExclude  = "exclude"
	FlagArchived = "archived"
	FlagForks    = "forks"
	FlagMaxRepos = "max-repos"

	// Output
	FlagFormat = "format"
	FlagOut    = "out"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagAPIURL      = "api-url"
	FlagVerbose     = "verbose"
)

// Long lists every flag that may be spelled with a single leading dash.
var Long = []string{
	FlagUser, FlagToken, FlagAuth,
	FlagOrg, FlagBranch, FlagPeer, FlagInclude, FlagExclude, FlagArchived, FlagForks, FlagMaxRepos,
	FlagFormat, FlagOut,
	FlagConcurrency, FlagTimeout, FlagAPIURL, FlagVerbose,
}
