// Package hlint adapts the external hlint binary: encoding its command-line
// options, invoking it per file, and decoding its JSON output into domain
// findings.
package hlint

import (
	"fmt"
	"strings"
)

// Option is a single analyzer option. Options are carried as an ordered list
// rather than a map so the encoded argument string is deterministic in the
// order the configuration supplied them.
type Option struct {
	Name  string
	Value any
}

// EncodeOptions renders analyzer options into hlint's argument syntax:
//
//   - a nil value drops the option entirely
//   - true becomes a bare flag (--name)
//   - false becomes a negated flag (--no-name)
//   - underscores in names become hyphens
//   - everything else is rendered as --name value
//
// Values are not shell-escaped. Options come from static trusted
// configuration, never from user-controlled free text; quoting here would
// change the argument strings of already-working configurations.
func EncodeOptions(opts []Option) string {
	parts := make([]string, 0, len(opts))
	for _, opt := range opts {
		if opt.Value == nil {
			continue
		}
		name := opt.Name
		value := ""
		switch v := opt.Value.(type) {
		case bool:
			if !v {
				name = "no_" + name
			}
		default:
			value = fmt.Sprint(v)
		}
		name = strings.ReplaceAll(name, "_", "-")
		parts = append(parts, "--"+name+" "+value)
	}
	return strings.Join(parts, " ")
}
