package main

import (
	"bufio"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/runtime"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows the effective configuration as TOML.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// RunConfig controls program execution.
type RunConfig struct {
	MaxSteps  int64
	MaxDepth  int
	CacheSize int
	// Parallel bounds how many programs "run" executes at once.
	Parallel int
}

// OutputConfig controls what the CLI prints.
type OutputConfig struct {
	Pretty    bool
	Color     bool
	Verbosity int
}

type lpiConfig struct {
	Run    RunConfig
	Output OutputConfig
}

func defaultConfig() lpiConfig {
	return lpiConfig{
		Run: RunConfig{
			MaxDepth:  evaluator.DefaultMaxDepth,
			CacheSize: runtime.DefaultCacheSize,
			Parallel:  4,
		},
		Output: OutputConfig{
			Color:     true,
			Verbosity: verbosityFlag.Value,
		},
	}
}

func loadConfig(file string, cfg *lpiConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "opening config")
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads defaults, then the config file, then applies global flags.
func makeConfig(ctx *cli.Context) (lpiConfig, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if ctx.GlobalIsSet(verbosityFlag.Name) {
		cfg.Output.Verbosity = ctx.GlobalInt(verbosityFlag.Name)
	}
	if ctx.GlobalIsSet(maxStepsFlag.Name) {
		cfg.Run.MaxSteps = ctx.GlobalInt64(maxStepsFlag.Name)
	}
	if ctx.GlobalIsSet(maxDepthFlag.Name) {
		cfg.Run.MaxDepth = ctx.GlobalInt(maxDepthFlag.Name)
	}
	if ctx.GlobalBool(noColorFlag.Name) {
		cfg.Output.Color = false
	}
	if cfg.Run.Parallel < 1 {
		cfg.Run.Parallel = 1
	}
	return cfg, nil
}

// runtimeFor builds a runtime from the configuration.
func runtimeFor(cfg lpiConfig, opts ...runtime.Option) *runtime.Runtime {
	base := []runtime.Option{
		runtime.WithMaxSteps(cfg.Run.MaxSteps),
		runtime.WithMaxDepth(cfg.Run.MaxDepth),
		runtime.WithCacheSize(cfg.Run.CacheSize),
	}
	return runtime.New(append(base, opts...)...)
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg := configOf(ctx)
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}

// pretty reports whether diagnostics should be human-readable.
func pretty(ctx *cli.Context, cfg lpiConfig) bool {
	return cfg.Output.Pretty || ctx.Bool(prettyFlag.Name)
}
