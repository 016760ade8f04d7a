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
package update

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Metrics refreshes the ratio snapshot of every symbol in the universe. A
// symbol already captured inside the current nightly window is skipped; a
// symbol whose fetch or save fails is logged and the loop continues.
func Metrics(ctx context.Context, api MarketData, store MetricStore) RunSummary {
	summary := newRunSummary("metrics")
	logger := log.With().Str("RunID", summary.RunID.String()).Logger()

	defer func() {
		summary.EndTime = time.Now()
		logger.Info().Object("Summary", &summary).Msg("metrics update pass finished")
	}()

	symbols, err := store.Symbols(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("could not list symbols from database")
		return summary
	}

	since := windowStart(time.Now())

	for _, symbol := range symbols {
		summary.Processed++

		recent, err := store.HasMetricSnapshotSince(ctx, symbol, since)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("could not check for a recent metric snapshot")
			summary.Failed++
			continue
		}

		if recent {
			logger.Debug().Str("Symbol", symbol).Time("WindowStart", since).
				Msg("symbol already updated this window")
			summary.Skipped++
			continue
		}

		financials, err := api.BasicFinancials(ctx, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("could not fetch basic financials")
			summary.Failed++
			continue
		}

		snapshot := ExtractMetrics(symbol, financials.Metric)
		if err := store.SaveMetricSnapshot(ctx, snapshot); err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("could not save metric snapshot")
			summary.Failed++
			continue
		}

		summary.Added++
	}

	return summary
}
