package plan

import (
	"fmt"
	"strings"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// Render pretty-prints a possibly incomplete plan for diagnostics. Unset
// fields show as "<unset>" so a validation failure pinpoints which layer
// under-specified what.
func (p Plan) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "dataDirectory:     %s\n", p.DataDirectory)
	fmt.Fprintf(&b, "connectionTimeout: %s\n", p.ConnectionTimeout)
	fmt.Fprintf(&b, "initDbCache:       %s\n", p.CacheInitDB)
	if p.Logger.IsSet() {
		b.WriteString("logger:            set\n")
	} else {
		b.WriteString("logger:            <unset>\n")
	}

	b.WriteString("postgresPlan:\n")
	renderProcessConfig(&b, "  ", p.Postgres.Config)
	fmt.Fprintf(&b, "  connectionOptions: %s\n", renderOptions(p.Postgres.Options))

	if p.InitDB != nil {
		b.WriteString("initDbConfig:\n")
		renderProcessConfig(&b, "  ", *p.InitDB)
	} else {
		b.WriteString("initDbConfig:      <absent>\n")
	}
	if p.CreateDB != nil {
		b.WriteString("createDbConfig:\n")
		renderProcessConfig(&b, "  ", *p.CreateDB)
	} else {
		b.WriteString("createDbConfig:    <absent>\n")
	}

	if len(p.ConfigFile) > 0 {
		b.WriteString("configFile:\n")
		for _, line := range p.ConfigFile {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	return b.String()
}

func renderProcessConfig(b *strings.Builder, indent string, c ProcessConfig) {
	fmt.Fprintf(b, "%sinherit: %s\n", indent, c.Environment.Inherit)
	if len(c.Environment.Specific) > 0 {
		env, _ := EnvVars{Inherit: partial.Some(false), Specific: c.Environment.Specific}.Complete(nil)
		fmt.Fprintf(b, "%senv:     %s\n", indent, strings.Join(env, " "))
	}
	fmt.Fprintf(b, "%sargv:    %s\n", indent, strings.Join(c.Args.Render(), " "))
	fmt.Fprintf(b, "%sstdIn:   %s\n", indent, renderStream(c.StdIn.IsSet()))
	fmt.Fprintf(b, "%sstdOut:  %s\n", indent, renderStream(c.StdOut.IsSet()))
	fmt.Fprintf(b, "%sstdErr:  %s\n", indent, renderStream(c.StdErr.IsSet()))
}

func renderStream(set bool) string {
	if set {
		return "bound"
	}
	return "<unset>"
}

func renderOptions(o ConnectionOptions) string {
	masked := o
	if _, ok := o.Password.Get(); ok {
		masked.Password = partial.Some("****")
	}
	return masked.ConnString()
}
