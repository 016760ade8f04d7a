// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fvdata",
	Short: "fvdata maintains a database of point-in-time equity fundamentals",
	Long: `fvdata is a command line utility that pulls fundamental equity data from
the Finnhub market-data API and persists normalized snapshots into
PostgreSQL, so downstream analytics can query point-in-time fundamentals
per ticker without re-fetching from the API.

Three kinds of data are tracked:

	* company profile and listing data for the tracked universe
	* basic financial ratios (valuation, profitability, liquidity)
	* quarterly reported financials (revenue, diluted EPS, net income)

Updates run as single sequential passes over the symbol universe, rate
limited to stay within the API ceiling. A symbol that fails never stops
the batch; its error is logged and the pass continues.`,
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

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fvdata.toml)")
	rootCmd.PersistentFlags().String("dbUrl", "", "database connection string")
	if err := viper.BindPFlag("db.url", rootCmd.PersistentFlags().Lookup("dbUrl")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for dbUrl failed")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".fvdata" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".fvdata")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// the original deployment configured these through a .env file; honor
	// the same variable names
	if err := viper.BindEnv("finnhub.apikey", "FINNHUB_API_KEY"); err != nil {
		log.Panic().Err(err).Msg("BindEnv for finnhub.apikey failed")
	}
	if err := viper.BindEnv("db.url", "DATABASE_URL"); err != nil {
		log.Panic().Err(err).Msg("BindEnv for db.url failed")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
