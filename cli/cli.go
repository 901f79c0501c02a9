package cli

import (
	"github.com/jessevdk/go-flags"

	"github.com/lexandro/snapmatch/failure"
)

// Option defines command line options.
type Option struct {
	HTML        []string `long:"html" description:"LMS export page to scrape for snapshot links (repeatable)"`
	HTMLOnly    bool     `long:"html-only" description:"compare only what the export pages link to, ignoring paths from the config file"`
	Config      string   `short:"c" long:"config" description:"YAML config file"`
	Convention  string   `long:"convention" description:"naming convention: suffix, directory or regex"`
	Pattern     string   `long:"pattern" description:"regex with (?P<id>) and (?P<side>) groups for the regex convention"`
	Sides       []string `long:"side" description:"allowed side marker, in display order (repeatable)"`
	Extensions  []string `long:"ext" description:"snapshot file extension (repeatable)"`
	Excludes    []string `long:"exclude" description:"extra ignore glob (repeatable)"`
	MaxFileSize int64    `long:"max-file-size" description:"maximum snapshot size in bytes"`
	Workers     int      `short:"j" long:"workers" description:"parallel comparisons"`
	Threshold   float64  `long:"threshold" description:"hide matches below this percentage"`
	DownloadDir string   `long:"download-dir" description:"directory for snapshots downloaded from export pages"`
	Format      string   `long:"format" description:"report format" choice:"text" choice:"json" default:"text"`
	Output      string   `short:"o" long:"output" description:"write the report to a file instead of stdout"`
	LogLevel    string   `long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	LogFile     string   `long:"log-file" description:"log file path (default: stderr)"`
	Verbose     []bool   `short:"v" long:"verbose" description:"more logging (-v info, -vv debug)"`
	Version     bool     `long:"version" description:"display the version and exit"`

	Args struct {
		Paths []string `positional-arg-name:"PATHS" description:"snapshot files or directories"`
	} `positional-args:"yes"`

	thresholdSet bool
}

// Parse returns parsed command-line flags in Option struct
func Parse(name string, args []string) (*Option, error) {
	opt := &Option{}
	parser := flags.NewParser(opt, flags.Default)
	parser.Name = name
	parser.Usage = "[OPTIONS] [PATHS...]"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	// an explicit --threshold 0 still overrides the config file
	if o := parser.FindOptionByLongName("threshold"); o != nil && o.IsSet() {
		opt.thresholdSet = true
	}
	if opt.Version {
		return opt, nil
	}
	if err := opt.check(); err != nil {
		return nil, err
	}
	return opt, nil
}

func (o *Option) check() error {
	if o.HTMLOnly && len(o.Args.Paths) > 0 {
		return failure.Configf("--html-only cannot be combined with PATHS")
	}
	if o.HTMLOnly && len(o.HTML) == 0 {
		return failure.Configf("--html-only needs at least one --html page")
	}
	if o.Pattern != "" && o.Convention != "" && o.Convention != "regex" {
		return failure.Configf("--pattern only applies to the regex convention, not %q", o.Convention)
	}
	return nil
}

// Inputs returns the snapshot paths to resolve: PATHS when given, otherwise
// the config file's paths unless --html-only is set.
func (o *Option) Inputs(configPaths []string) []string {
	if len(o.Args.Paths) > 0 {
		return o.Args.Paths
	}
	if o.HTMLOnly {
		return nil
	}
	return configPaths
}

// ThresholdSet reports whether --threshold was given on the command line.
func (o *Option) ThresholdSet() bool {
	return o.thresholdSet
}

// LevelName returns the effective log level: an explicit --log-level wins,
// otherwise -v raises the warn default.
func (o *Option) LevelName() string {
	if o.LogLevel != "" {
		return o.LogLevel
	}
	switch len(o.Verbose) {
	case 0:
		return "warn"
	case 1:
		return "info"
	default:
		return "debug"
	}
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}
