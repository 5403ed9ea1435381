package flags

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/shipwatch/shipwatch/pkg/reconciler"
)

// ReconcilerFlags holds the polling discipline for the status reconciler.
type ReconcilerFlags struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

func NewReconcilerFlags() *ReconcilerFlags {
	return &ReconcilerFlags{
		PollInterval: reconciler.DefaultPollInterval,
		Timeout:      reconciler.DefaultTimeout,
	}
}

func (f *ReconcilerFlags) BindFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&f.PollInterval, "poll-interval", f.PollInterval, "Fixed interval between deployment polls")
	fs.DurationVar(&f.Timeout, "timeout", f.Timeout, "Wall-clock bound on the polling loop")
}

func (f *ReconcilerFlags) Validate() error {
	if f.PollInterval <= 0 {
		return errors.New("--poll-interval must be positive")
	}
	if f.Timeout <= 0 {
		return errors.New("--timeout must be positive")
	}
	return nil
}
