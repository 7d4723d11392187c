// Package flagx helps several independent flag sets share one command line.
// Each consumer picks out only the flags it owns before calling Parse, so an
// unknown flag meant for another consumer never aborts parsing.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args that belong to the named flags,
// keeping their values. Names are given without dashes; both "-name" and
// "--name" spellings match, as do "-name value" and "-name=value".
//
// A token following a matched flag is treated as its value unless it starts
// with a dash. Positional arguments and unknown flags are dropped. The result
// is never nil.
func FilterArgs(args []string, names []string) []string {
	owned := make(map[string]struct{}, len(names))
	for _, n := range names {
		owned[strings.TrimLeft(n, "-")] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, hasValue, ok := flagName(args[i])
		if !ok {
			continue
		}
		if _, mine := owned[name]; !mine {
			continue
		}
		out = append(out, args[i])
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// flagName extracts the bare name of a flag token. hasValue reports the
// "-name=value" form.
func flagName(arg string) (name string, hasValue bool, ok bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
		return "", false, false
	}
	name = strings.TrimLeft(arg, "-")
	if before, _, found := strings.Cut(name, "="); found {
		return before, true, true
	}
	return name, false, true
}

// ConfigFileFlag extracts the config file path given as -c or -config.
// The last occurrence wins; an empty string means no file was requested.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}
