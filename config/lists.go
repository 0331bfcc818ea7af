package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Lists holds the two static name lists that drive the pipeline's filtering:
// which drugs count as biologics and which conditions count as rheumatic
// diseases. Matching against both is case-insensitive substring matching, so
// order matters: the first list entry contained in a condition wins.
type Lists struct {
	Biologics         []string `mapstructure:"biologics"`
	RheumaticDiseases []string `mapstructure:"rheumatic_diseases"`
}

// LoadLists reads biologics.yaml and diseases.yaml from dir. A missing or
// empty list is a fatal configuration error: an empty biologics list would
// silently produce an empty dataset.
func LoadLists(dir string) (*Lists, error) {
	lists := &Lists{}

	if err := readListFile(filepath.Join(dir, "biologics.yaml"), "biologics", &lists.Biologics); err != nil {
		return nil, err
	}
	if err := readListFile(filepath.Join(dir, "diseases.yaml"), "rheumatic_diseases", &lists.RheumaticDiseases); err != nil {
		return nil, err
	}

	if len(lists.Biologics) == 0 {
		return nil, fmt.Errorf("biologics list is empty")
	}
	if len(lists.RheumaticDiseases) == 0 {
		return nil, fmt.Errorf("rheumatic diseases list is empty")
	}

	return lists, nil
}

func readListFile(path string, key string, dest *[]string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := v.UnmarshalKey(key, dest); err != nil {
		return fmt.Errorf("decoding %q from %s: %w", key, path, err)
	}

	return nil
}
