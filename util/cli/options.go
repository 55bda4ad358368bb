package cli

import (
	"flag"
)

type Options struct {
	ConfigDir  string
	ConfigName string
	Migrate    bool
	PrintHelp  bool
}

var opts = Options{}

var EnvMessage = `If you don't set -config-dir and -config-name on the command line,
this requires the following environment vars:

PHAROS_CONFIG_DIR - Path to the directory containing the .env settings file.

PHAROS_ENV - Name of the configuration to load. For example:
    test - Loads .env.test from PHAROS_CONFIG_DIR
    production - Loads .env.production from PHAROS_CONFIG_DIR
`

func Init() {
	flag.StringVar(&opts.ConfigDir, "config-dir", "", "Directory containing the .env settings file")
	flag.StringVar(&opts.ConfigName, "config-name", "", "Name of the configuration to load, such as test or production")
	flag.BoolVar(&opts.Migrate, "migrate", false, "Create or update database tables and seed roles before serving")
	flag.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
}

func ParseOpts() Options {
	flag.Parse()
	return opts
}

// HasConfig returns true if both config flags were set.
func (o Options) HasConfig() bool {
	return o.ConfigDir != "" && o.ConfigName != ""
}

func PrintDefaults() {
	flag.PrintDefaults()
}
