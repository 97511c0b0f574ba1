package main

import (
	"fmt"

	"github.com/alnah/go-mdpost/internal/config"
)

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	f := &commonFlags{}
	fs := newFlagSet("config", env.Stderr, printConfigUsage)
	addCommonFlags(fs, f)
	if _, err := parseFlagSet(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(f.config, loadEnvConfig())
	if err != nil {
		return err
	}
	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(env.Stdout, string(data))
	return err
}
