package cli

import "flag"

const defaultConfigPath = "./a11ylint.toml"

type cliOptions struct {
	configPath string
	once       bool
	ui         bool
	file       string
	history    bool
	since      string
	sarifPath  string
	mdPath     string
	disable    string
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("a11ylint", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", false, "Run single scan and exit")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode")
	fs.StringVar(&opts.file, "file", "", "Analyze a single file in isolation and exit")
	fs.BoolVar(&opts.history, "history", false, "Persist session snapshots even when history is disabled in config")
	fs.StringVar(&opts.since, "since", "", "Print historical snapshots at/after this timestamp (RFC3339 or YYYY-MM-DD, requires history)")
	fs.StringVar(&opts.sarifPath, "sarif", "", "Write SARIF report to this path (overrides config)")
	fs.StringVar(&opts.mdPath, "markdown", "", "Write Markdown report to this path (overrides config)")
	fs.StringVar(&opts.disable, "disable", "", "Comma-separated analyzer names to disable")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
