package flags

import (
	"net/url"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/shipwatch/shipwatch/pkg/platform"
)

// PlatformFlags holds connection information for the deployment platform.
type PlatformFlags struct {
	URL           string
	Token         string
	ApplicationID string
	Take          int
}

func NewPlatformFlags() *PlatformFlags {
	return &PlatformFlags{
		Take: platform.DefaultTake,
	}
}

func (f *PlatformFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.URL, "platform-url", f.URL, "Base URL of the deployment platform")
	fs.StringVar(&f.Token, "platform-token", f.Token, "API token for the deployment platform (defaults to SHIPWATCH_PLATFORM_TOKEN)")
	fs.StringVar(&f.ApplicationID, "application-id", f.ApplicationID, "Platform application whose deployments are polled")
	fs.IntVar(&f.Take, "deployments-take", f.Take, "Recent deployments window requested from the platform")
}

func (f *PlatformFlags) Validate() error {
	if _, err := url.ParseRequestURI(f.URL); err != nil {
		return errors.WithMessage(err, "platform URL must be valid")
	}
	if f.ApplicationID == "" {
		return errors.New("--application-id is required")
	}
	if f.Token == "" {
		f.Token = os.Getenv("SHIPWATCH_PLATFORM_TOKEN")
	}
	if f.Token == "" {
		return errors.New("platform token is required (--platform-token or SHIPWATCH_PLATFORM_TOKEN)")
	}
	return nil
}

// GetClient builds the platform client from the flag values.
func (f *PlatformFlags) GetClient() *platform.Client {
	return platform.NewClient(f.URL, f.Token, f.Take)
}
