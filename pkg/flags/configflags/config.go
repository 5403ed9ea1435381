package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/shipwatch/shipwatch/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the optional shipwatch configuration
// file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"Configuration file for shipwatch; flags override values set here")
}

// GetConfig loads the configuration file. An unset path yields an empty
// config, not an error.
func (f *ConfigFlags) GetConfig() (*v1.ShipwatchConfig, error) {
	var config v1.ShipwatchConfig

	if f.Path == "" {
		return &config, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load config")
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.WithMessage(err, "couldn't unmarshal config")
	}

	return &config, nil
}
