package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"depversion/internal/flags"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep the CLI
	// flags in internal/cli/root.go and the names in internal/flags in sync.
	Targeting Targeting
	Auth      Auth
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// Account is the GitHub user or organization that owns the repositories
	// (first positional argument; name or URL).
	Account string

	// Dependency is the package name to look up in every package.json
	// (second positional argument).
	Dependency string

	// Org lists organization repositories instead of user repositories (see --org).
	Org bool

	// Branch restricts the manifest lookup to a branch, tag or SHA (see --branch).
	// Empty means the repository's default branch.
	Branch string

	// Peer also consults peerDependencies (see --peer).
	Peer bool

	// Include keeps only repositories matching at least one pattern (see --include).
	// Go path.Match style; if a pattern contains '/', it matches OWNER/REPO,
	// otherwise it matches the repo name.
	Include []string

	// Exclude drops repositories matching any pattern (see --exclude).
	Exclude []string

	// Archived controls how archived repos are handled (see --archived).
	// Allowed values: include, exclude, only.
	Archived string

	// Forks controls how forked repos are handled (see --forks).
	// Allowed values: include, exclude, only.
	Forks string

	// MaxRepos caps how many repositories are inspected (see --max-repos). 0 means unlimited.
	MaxRepos int
}

type Auth struct {
	// User identifies the caller and is sent as the User-Agent (see --user). Required.
	User string

	// Token is the access credential (see --token). Required; the CLI falls
	// back to GITHUB_TOKEN / GH_TOKEN / gh auth token when the flag is empty.
	Token string

	// Mode selects how the token is sent: query (access_token parameter) or
	// header (Authorization: Bearer).
	Mode string

	// APIURL overrides the REST API base URL (GitHub Enterprise, tests).
	APIURL string
}

type Output struct {
	// Format controls the console rendering (see --format).
	// Allowed values: text, json.
	Format string

	// Out additionally writes the JSON report to this path (see --out).
	Out string
}

type Runtime struct {
	// Concurrency bounds in-flight manifest requests (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// Timeout bounds the whole run (see --timeout). Must be > 0.
	Timeout time.Duration

	// Verbose logs every API call and full error details to stderr.
	Verbose bool
}

const (
	AuthModeQuery  = "query"
	AuthModeHeader = "header"
)

func New() *Config {
	return &Config{
		Targeting: Targeting{
			Archived: "include",
			Forks:    "include",
		},
		Auth: Auth{
			Mode: AuthModeQuery,
		},
		Output: Output{
			Format: "text",
		},
		Runtime: Runtime{
			Concurrency: 10,
			Timeout:     5 * time.Minute,
		},
	}
}

// ConfigError reports invalid or missing invocation input. It is always
// raised before any network activity.
type ConfigError struct {
	Message string
	// Missing holds the names of required options that were not supplied.
	Missing []string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// MissingOptionsError builds the error listing every absent required option.
func MissingOptionsError(missing []string) *ConfigError {
	verb := "is"
	if len(missing) > 1 {
		verb = "are"
	}
	return &ConfigError{
		Message: fmt.Sprintf("Argument %s %s required", strings.Join(missing, ", "), verb),
		Missing: append([]string(nil), missing...),
	}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func (c *Config) Validate() error {
	c.Targeting.Account = strings.TrimSpace(c.Targeting.Account)
	if c.Targeting.Account == "" {
		return configErrorf("User/Org argument is required as first arg")
	}
	account, err := normalizeAccountSelector(c.Targeting.Account)
	if err != nil {
		return configErrorf("invalid account value: %v", err)
	}
	c.Targeting.Account = account

	c.Targeting.Dependency = strings.TrimSpace(c.Targeting.Dependency)
	if c.Targeting.Dependency == "" {
		return configErrorf("Dependency argument is required as second arg")
	}

	// Required options are reported together so a single run shows everything missing.
	c.Auth.User = strings.TrimSpace(c.Auth.User)
	c.Auth.Token = strings.TrimSpace(c.Auth.Token)
	var missing []string
	if c.Auth.User == "" {
		missing = append(missing, flags.FlagUser)
	}
	if c.Auth.Token == "" {
		missing = append(missing, flags.FlagToken)
	}
	if len(missing) > 0 {
		return MissingOptionsError(missing)
	}

	c.Auth.Mode = normalizeEnumValue(c.Auth.Mode)
	if c.Auth.Mode == "" {
		c.Auth.Mode = AuthModeQuery
	}
	if c.Auth.Mode != AuthModeQuery && c.Auth.Mode != AuthModeHeader {
		return configErrorf("unsupported --%s: %s (must be one of: query, header)", flags.FlagAuth, c.Auth.Mode)
	}

	if c.Auth.APIURL != "" {
		u, err := url.Parse(strings.TrimSpace(c.Auth.APIURL))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return configErrorf("invalid --%s value: %q", flags.FlagAPIURL, c.Auth.APIURL)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.Auth.APIURL = u.String()
	}

	c.Targeting.Branch = strings.TrimSpace(c.Targeting.Branch)
	c.Targeting.Include = splitCommaList(c.Targeting.Include)
	c.Targeting.Exclude = splitCommaList(c.Targeting.Exclude)

	c.Targeting.Archived = normalizeEnumValue(c.Targeting.Archived)
	if c.Targeting.Archived == "" {
		c.Targeting.Archived = "include"
	}
	if !isPolicy(c.Targeting.Archived) {
		return configErrorf("unsupported --%s: %s (must be one of: include, exclude, only)", flags.FlagArchived, c.Targeting.Archived)
	}

	c.Targeting.Forks = normalizeEnumValue(c.Targeting.Forks)
	if c.Targeting.Forks == "" {
		c.Targeting.Forks = "include"
	}
	if !isPolicy(c.Targeting.Forks) {
		return configErrorf("unsupported --%s: %s (must be one of: include, exclude, only)", flags.FlagForks, c.Targeting.Forks)
	}

	if c.Targeting.MaxRepos < 0 {
		return configErrorf("--%s must be >= 0", flags.FlagMaxRepos)
	}

	c.Output.Format = normalizeEnumValue(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return configErrorf("unsupported --%s: %s (must be one of: text, json)", flags.FlagFormat, c.Output.Format)
	}
	c.Output.Out = strings.TrimSpace(c.Output.Out)

	if c.Runtime.Concurrency <= 0 {
		return configErrorf("--%s must be >= 1", flags.FlagConcurrency)
	}
	if c.Runtime.Timeout <= 0 {
		return configErrorf("--%s must be > 0", flags.FlagTimeout)
	}

	return nil
}

func isPolicy(v string) bool {
	return v == "include" || v == "exclude" || v == "only"
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeAccountSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	// Accept a raw account name, or a GitHub URL like:
	//   https://github.com/<name>
	//   https://github.com/orgs/<name>
	//   https://github.com/users/<name>
	//   github.com/<name>
	if strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/") {
		raw = "https://" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%q", raw)
		}
		host := strings.ToLower(u.Hostname())
		if host == "www.github.com" {
			host = "github.com"
		}
		if host != "github.com" {
			return "", fmt.Errorf("%q", raw)
		}
		parts := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			return "", fmt.Errorf("%q", raw)
		}
		if parts[0] == "orgs" || parts[0] == "users" {
			if len(parts) < 2 {
				return "", fmt.Errorf("%q", raw)
			}
			return parts[1], nil
		}
		return parts[0], nil
	}

	// Basic sanity: reject obvious repo-like inputs.
	if strings.Contains(raw, "/") {
		return "", fmt.Errorf("%q", raw)
	}
	return raw, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
