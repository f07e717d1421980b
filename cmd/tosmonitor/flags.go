package main

import (
	"flag"
	"io"
)

type AppFlags struct {
	GlobalConfigFile string
	Mode             string
	Seed             bool
	SeedFile         string
	DotEnvFile       string
	Probe            bool
}

// ParseFlags parses args (without the program name). Short aliases are used
// only when the long form is unset.
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("tosmonitor", flag.ContinueOnError)
	fs.SetOutput(output)

	globalConfigFile := fs.String("globalconfig", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("gc", "", "Alias for -globalconfig")

	modeFlag := fs.String("mode", "", "Mode to run: onetime (single scan) or automated (scheduler). Overrides the config file if set")
	modeFlagAlias := fs.String("m", "", "Alias for -mode")

	seed := fs.Bool("seed", false, "Upsert the service catalogue before running")
	seedAlias := fs.Bool("s", false, "Alias for -seed")
	seedFile := fs.String("seed-file", "", "YAML service catalogue used by -seed instead of the built-in one")

	dotEnv := fs.String("dotenv", "", "Path to a .env file loaded before the configuration (default .env)")
	probe := fs.Bool("probe", false, "Fetch every catalogue URL once, print the results and exit without storing anything")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{
		GlobalConfigFile: *globalConfigFile,
		Mode:             *modeFlag,
		Seed:             *seed || *seedAlias,
		SeedFile:         *seedFile,
		DotEnvFile:       *dotEnv,
		Probe:            *probe,
	}
	if flags.GlobalConfigFile == "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}
	if flags.Mode == "" {
		flags.Mode = *modeFlagAlias
	}
	return flags, nil
}
