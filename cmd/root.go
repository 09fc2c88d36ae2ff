/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/drivesafe/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drivesafe",
	Short: "Driving safety analytics over GPS trace datasets",
	Long: `drivesafe streams a GPS trace dataset in fixed-size batches and reports
driving safety metrics, per-trip summaries and popular routes,
either over HTTP (webd) or once on the command line (scan).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := params.DefaultSourceConfig()
	safetyDefaults := params.DefaultSafetyConfig()

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+params.ConfigFileName+".yaml)")
	pFlags.String("source", defaults.Path, "Trace source file (.gz is decompressed)")
	pFlags.Int("chunk-size", defaults.ChunkSize, "Rows per batch")
	pFlags.String("format", string(defaults.Format), "Source format: csv or ndjson")
	pFlags.String("delimiter", string(defaults.Delimiter), "CSV field delimiter")
	pFlags.String("malformed", string(defaults.Malformed), "Malformed row policy: fail or skip")
	pFlags.String("mean-policy", string(safetyDefaults.Mean), "Running mean policy: point-weighted or equal-weight")
	pFlags.String("max-policy", string(safetyDefaults.Max), "Running max policy: max or sum")
	pFlags.Int("verbosity", int(slog.LevelInfo), "Log level: -4 debug, 0 info, 4 warn, 8 error")

	bindFlags(pFlags, "source", "chunk-size", "format", "delimiter", "malformed",
		"mean-policy", "max-policy", "verbosity")
}

// bindFlags binds the named flags to viper keys of the same name,
// so each can also be set from the config file or a DRIVESAFE_ variable.
func bindFlags(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".drivesafe" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(params.ConfigFileName)
	}

	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaultSlog installs a text logger on stderr at the configured verbosity.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := slog.Level(viper.GetInt("verbosity"))
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging", "cmd", cmd.Name(), "args", args, "level", level)
}
