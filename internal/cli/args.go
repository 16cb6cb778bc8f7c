package cli

import (
	"strings"

	"github.com/samber/lo"
)

// legacyModes maps the historical mode switches to subcommands.
var legacyModes = map[string]string{
	"--migrate":    "migrate",
	"--generate":   "generate",
	"--archive":    "archive",
	"--extract":    "extract",
	"--submodules": "submodules",
	"--diff":       "diff",
	"--readFile":   "selection",
}

// bareFlags are recognised anywhere on the command line with or without dashes.
var bareFlags = []string{"deploy-from-file", "cpc-no-fees-deploy", "protocol-only", "update", "reset"}

// modeFlags lists the pipeline flags each subcommand accepts. Pipeline flags
// given to any other mode are dropped.
var modeFlags = map[string][]string{
	"migrate": {"--reset"},
	"upgrade": {"--deploy-from-file", "--cpc-no-fees-deploy"},
}

// NormalizeArgs rewrites a legacy invocation such as
// "public.test.k8s --migrate --reset" or "net update protocol-only" into
// the subcommand form the root command parses. The mode, when present, is
// moved to the front.
func NormalizeArgs(args []string) []string {
	var (
		mode string
		rest []string
	)
	for _, arg := range args {
		if sub, ok := legacyModes[arg]; ok && mode == "" {
			mode = sub
			continue
		}
		if lo.Contains(bareFlags, strings.TrimPrefix(arg, "--")) {
			arg = "--" + strings.TrimPrefix(arg, "--")
		}
		rest = append(rest, arg)
	}
	if mode == "" {
		return rest
	}

	allowed := modeFlags[mode]
	rest = lo.Filter(rest, func(arg string, _ int) bool {
		if !lo.Contains(bareFlags, strings.TrimPrefix(arg, "--")) {
			return true
		}
		return lo.Contains(allowed, arg)
	})
	return append([]string{mode}, rest...)
}

// splitArgs splits comma separated network lists.
func splitArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
