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
	"context"

	"github.com/fundvault/fvdata/finnhub"
	"github.com/fundvault/fvdata/healthcheck"
	"github.com/fundvault/fvdata/store"
	"github.com/fundvault/fvdata/update"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exchange string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run a data update pass",
	Long: `The update sub-commands each run one sequential pass over the symbol
universe: 'metrics' refreshes ratio snapshots, 'financials' reconciles
quarterly reported financials, and 'companies' refreshes the company
universe for an exchange.`,
}

var updateMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Capture a ratio snapshot for every tracked symbol",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		api, db := mustConnect(ctx)
		defer db.Close()

		update.Metrics(ctx, api, db)
		pingHealthcheck()
	},
}

var updateFinancialsCmd = &cobra.Command{
	Use:   "financials",
	Short: "Reconcile quarterly reported financials for every tracked symbol",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		api, db := mustConnect(ctx)
		defer db.Close()

		update.Financials(ctx, api, db)
		pingHealthcheck()
	},
}

var updateCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Refresh the company universe for an exchange",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		api, db := mustConnect(ctx)
		defer db.Close()

		update.Companies(ctx, api, db, exchange)
		pingHealthcheck()
	},
}

// mustConnect validates the required configuration and builds the API client
// and database store. Missing configuration aborts before any batch work
// begins.
func mustConnect(ctx context.Context) (*finnhub.Client, *store.Store) {
	apiKey := viper.GetString("finnhub.apikey")
	if apiKey == "" {
		log.Fatal().Msg("missing finnhub API key; set finnhub.apikey in the config file or FINNHUB_API_KEY in the environment")
	}

	dbURL := viper.GetString("db.url")
	if dbURL == "" {
		log.Fatal().Msg("missing database connection string; set db.url in the config file or DATABASE_URL in the environment")
	}

	db, err := store.Open(ctx, dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}

	return finnhub.NewClient(apiKey, nil), db
}

func pingHealthcheck() {
	if err := healthcheck.Ping(); err != nil {
		log.Error().Err(err).Msg("could not ping healthcheck")
	}
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.AddCommand(updateMetricsCmd)
	updateCmd.AddCommand(updateFinancialsCmd)
	updateCmd.AddCommand(updateCompaniesCmd)

	updateCompaniesCmd.Flags().StringVar(&exchange, "exchange", "US", "exchange to refresh the company universe for")
}
