package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tplc/cli/cmd"
	"github.com/ardnew/tplc/log"
	"github.com/ardnew/tplc/pkg"
)

// CLI is the top-level command-line interface for tplc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Compile cmd.Compile `cmd:"" default:"withargs" help:"Compile a template to C++ (default)."`
	Check   cmd.Check   `cmd:""                    help:"Type-check a template and list warnings."`
	Tokens  cmd.Tokens  `cmd:""                    help:"Print the token sequence of a template."`
	AST     cmd.AST     `cmd:"" name:"ast"         help:"Print the syntax tree of a template."`
	Fmt     cmd.Fmt     `cmd:""                    help:"Rewrite a template in canonical form."`
	Init    cmd.Init    `cmd:""                    help:"Write a configuration file with current flag values."`
}

// Run executes the tplc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	if ktx.Command() == "init" {
		if err := pkg.MkdirAll(configDir()); err != nil {
			return err
		}
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = log.NewContext(ctx, log.Default())

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Commands receive the enriched context as their context.Context.
	ktx.BindTo(ctx, (*context.Context)(nil))

	// Execute the selected command
	return ktx.Run()
}

// Report writes a failed run's error to w for humans, quoting the template
// lines it refers to when there are any.
var Report = cmd.Report
