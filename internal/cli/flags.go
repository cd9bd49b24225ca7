package cli

import (
	"time"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value holding a YYYY-MM-DD calendar date.
type dateValue struct {
	t *time.Time
}

func newDateValue(p *time.Time) *dateValue {
	return &dateValue{t: p}
}

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return domain.FormatDate(*d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

func (d *dateValue) Type() string { return "date" }

// dateVar defines a date flag bound to p.
func dateVar(fs *pflag.FlagSet, p *time.Time, name, usage string) {
	fs.Var(newDateValue(p), name, usage)
}

var _ pflag.Value = (*dateValue)(nil)
