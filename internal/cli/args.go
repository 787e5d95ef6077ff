package cli

import (
	"slices"
	"strconv"
	"strings"

	"depversion/internal/flags"

	"github.com/spf13/pflag"
)

// normalizeLegacyArgs rewrites the single-dash long spelling ("-user=x",
// "-org") to the GNU form pflag understands. Arguments after "--" and
// unknown names are left alone.
func normalizeLegacyArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' {
			name, _, _ := strings.Cut(arg[1:], "=")
			if slices.Contains(flags.Long, name) {
				arg = "-" + arg
			}
		}
		out = append(out, arg)
	}
	return out
}

var _ pflag.Value = looseBool{}

// looseBool is a boolean flag where presence, or any value other than
// "false" or the empty string, means true.
type looseBool struct {
	v *bool
}

func (b looseBool) String() string {
	if b.v == nil {
		return "false"
	}
	return strconv.FormatBool(*b.v)
}

func (b looseBool) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	*b.v = s != "" && s != "false"
	return nil
}

func (b looseBool) Type() string { return "bool" }
