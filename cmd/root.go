package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/apitypegen/pkg/codegen"
)

const levelTrace = slog.Level(-8)

var (
	configFiles    []string
	level, version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "apitypegen",
	Short:         "resolve OpenAPI schema types into annotated target types",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(v string) {
	version = v
	rootCmd.Version = v
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error, debug+1, etc)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

func parseLevel(s string) (slog.Level, bool) {
	var ll slog.Level
	if err := (&ll).UnmarshalText([]byte(s)); err != nil {
		if strings.EqualFold(s, "trace") {
			return levelTrace, true
		}
		return slog.LevelInfo, false
	}
	return ll, true
}

func setLogger(ll slog.Level) *slog.Logger {
	l := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     ll,
	}))
	slog.SetDefault(l)
	return l
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	ll, ok := parseLevel(level)
	if !ok {
		panic("invalid log level: " + level)
	}
	l := setLogger(ll)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/apitypegen")
		viper.SetConfigType("yaml")
		viper.SetConfigName("apitypegen")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Info("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Info("merged config file")
				}
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	// config level applies when the flag was left at its default
	if llstr := viper.GetString("common.log.level"); llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		cl, ok := parseLevel(llstr)
		if !ok {
			panic("invalid log level: " + llstr)
		}
		if cl != ll {
			setLogger(cl)
		}
	}
}

// loadOptions binds the command's generator flags into viper and decodes the
// merged flag, env and config values into a fresh Options.
func loadOptions(c *cobra.Command) (*codegen.Options, error) {
	for key, flag := range optionFlags {
		if f := c.Flags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	opts := codegen.NewOptions()
	if err := viper.Unmarshal(opts); err != nil {
		return nil, err
	}
	opts.Normalize()
	return opts, nil
}

// optionFlags maps Options keys to their command-line flags.
var optionFlags = map[string]string{
	"inFile":                  "input-file",
	"outDir":                  "output-directory",
	"outFile":                 "output-file",
	"legacyTypeHintSupport":   "legacy-type-hints",
	"hideGenerationTimestamp": "hide-generation-timestamp",
	"modelPackage":            "model-package",
	"composerVendorName":      "vendor",
	"parallel":                "parallel",
	"skipValidation":          "skip-validation",
}

func addOptionFlags(c *cobra.Command) {
	d := codegen.NewOptions()
	c.Flags().StringP("input-file", "i", d.InFile, "OpenAPI 3 document to read (yaml or json)")
	c.Flags().StringP("output-directory", "o", d.OutDir, "directory to write the annotated document")
	c.Flags().StringP("output-file", "f", d.OutFile, "output file the annotated document is written to")
	c.Flags().Bool("legacy-type-hints", d.LegacyTypeHintSupport, "only emit array as a native type hint")
	c.Flags().Bool("hide-generation-timestamp", d.HideGenerationTimestamp, "forwarded into the output document")
	c.Flags().StringP("model-package", "m", d.ModelPackage, "namespace segment model classes are qualified with")
	c.Flags().String("vendor", d.VendorName, "vendor name used in service identifiers")
	c.Flags().BoolP("parallel", "p", false, "annotate models and operation groups concurrently")
	c.Flags().Bool("skip-validation", false, "do not validate the OpenAPI document")
}
