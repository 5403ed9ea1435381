package actions

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// WriteOutputs publishes key/value results for the calling pipeline. When
// GITHUB_OUTPUT is set the pairs are appended to that file in the runner's
// key=value format; otherwise they are logged so local runs still show them.
func WriteOutputs(outputs map[string]string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		for _, key := range sortedKeys(outputs) {
			log.Infof("output %s=%s", key, outputs[key])
		}
		return nil
	}
	return WriteFile(path, outputs)
}

// WriteFile appends the outputs to the given file, one key=value per line,
// in sorted key order.
func WriteFile(path string, outputs map[string]string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "opening outputs file")
	}
	defer f.Close()

	for _, key := range sortedKeys(outputs) {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, outputs[key]); err != nil {
			return errors.Wrap(err, "writing outputs file")
		}
	}
	return nil
}

func sortedKeys(outputs map[string]string) []string {
	keys := make([]string, 0, len(outputs))
	for key := range outputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
