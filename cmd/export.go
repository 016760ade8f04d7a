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
	"os"

	"github.com/fundvault/fvdata/store"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportOut string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored quarterly results as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		db, err := store.Open(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer db.Close()

		rows, err := db.FinancialRows(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read financial snapshots")
		}

		out, err := os.Create(exportOut)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", exportOut).Msg("could not create output file")
		}
		defer out.Close()

		if err := gocsv.MarshalFile(&rows, out); err != nil {
			log.Fatal().Err(err).Msg("could not write CSV")
		}

		log.Info().Int("NumRows", len(rows)).Str("FileName", exportOut).Msg("exported financial snapshots")
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "financials.csv", "output file name")
}
