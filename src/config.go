package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"lifegrid/src/universe"
)

//LoadConfig loads the universe options from JSON file on top of o
func LoadConfig(filename string, o *universe.Options) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, o); err != nil {
		return errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return nil
}

//configArg finds the config file argument before the flags are parsed
//so the explicit flags can override the file values
func configArg(args []string) string {
	for i, a := range args {
		switch {
		case a == "-c" || a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}
