// Package flagx lets independent parsers share one command line: each one
// narrows the arguments down to the flags it owns before calling flag.Parse.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only allowedFlags from args, together with their values.
// Both "-f value" and "-f=value" forms are recognised. An argument starting
// with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if allowed[name] {
				out = append(out, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// StringValue returns the value of the last occurrence of any of names in
// args. Names are given without dashes; "-n" and "--n" both match. An empty
// string means the flag is absent or has no value.
func StringValue(args []string, names ...string) string {
	var value string

	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	allowed := make([]string, 0, 2*len(names))
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
		allowed = append(allowed, "-"+n, "--"+n)
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return value
}

// ConfigFile is the JSON config path passed with -c or -config.
func ConfigFile() string {
	return StringValue(os.Args[1:], "c", "config")
}

// EnvFile is the dotenv path passed with -env-file.
func EnvFile() string {
	return StringValue(os.Args[1:], "env-file")
}
