package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/capplan/internal/domain"
)

// enumFlag is a string flag restricted to a fixed set of values, so a
// typo fails at parse time with the accepted values listed.
type enumFlag struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(allowed ...string) *enumFlag {
	return &enumFlag{allowed: allowed}
}

func (f *enumFlag) String() string { return f.value }

func (f *enumFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range f.allowed {
		if s == a {
			f.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(f.allowed, ", "))
}

func (f *enumFlag) Type() string { return "string" }

func newTeamStatusFlag() *enumFlag {
	return newEnumFlag(string(domain.TeamActive), string(domain.TeamForming), string(domain.TeamInactive))
}
