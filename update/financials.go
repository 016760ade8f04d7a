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

	"github.com/fundvault/fvdata/data"
	"github.com/fundvault/fvdata/finnhub"
	"github.com/rs/zerolog/log"
)

// Accounting concepts extracted from the filed reports. Revenue has a
// fallback alias because filers report it under either tag.
const (
	conceptRevenue         = "us-gaap_Revenues"
	conceptRevenueContract = "us-gaap_RevenueFromContractWithCustomerExcludingAssessedTax"
	conceptEPSDiluted      = "us-gaap_EarningsPerShareDiluted"
	conceptNetIncomeLoss   = "us-gaap_NetIncomeLoss"
)

// Financials reconciles the quarterly reported financials of every symbol in
// the universe against what is already stored. The feed is assumed to be
// ordered newest-first; reconciliation stops at the first period that is not
// strictly newer than the latest stored period for the symbol. Periods that
// carry none of the tracked concepts are discarded. Failures are isolated
// per symbol.
func Financials(ctx context.Context, api MarketData, store FinancialStore) RunSummary {
	summary := newRunSummary("financials")
	logger := log.With().Str("RunID", summary.RunID.String()).Logger()

	defer func() {
		summary.EndTime = time.Now()
		logger.Info().Object("Summary", &summary).Msg("financials update pass finished")
	}()

	symbols, err := store.Symbols(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("could not list symbols from database")
		return summary
	}

	for _, symbol := range symbols {
		summary.Processed++

		latest, haveLatest, err := store.LatestPeriod(ctx, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("could not determine latest stored period")
			summary.Failed++
			continue
		}

		reported, err := api.QuarterlyReports(ctx, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("could not fetch quarterly reports")
			summary.Failed++
			continue
		}

		snapshots := reconcile(symbol, reported.Data, latest, haveLatest)
		if len(snapshots) == 0 {
			summary.Skipped++
			continue
		}

		added, err := store.SaveFinancialPeriods(ctx, symbol, snapshots)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("could not save financial snapshots")
			summary.Failed++
			continue
		}

		summary.Added += added
	}

	return summary
}

// reconcile walks the newest-first report feed for one symbol and returns
// the periods that should be persisted. Entries missing a year or quarter
// are skipped; the walk stops at the first entry not strictly newer than the
// latest stored period, on the assumption that everything older is already
// in the database.
func reconcile(symbol string, reports []*finnhub.QuarterlyReport, latest data.Period, haveLatest bool) []*data.FinancialSnapshot {
	snapshots := make([]*data.FinancialSnapshot, 0, len(reports))

	for _, report := range reports {
		if report.Year == 0 || report.Quarter == 0 {
			log.Warn().Str("Symbol", symbol).Int("Year", report.Year).
				Int("Quarter", report.Quarter).Msg("report entry is missing its period, skipping")
			continue
		}

		period := data.Period{Year: report.Year, Quarter: report.Quarter}
		if haveLatest && !period.After(latest) {
			log.Debug().Str("Symbol", symbol).Str("Period", period.String()).
				Str("Latest", latest.String()).Msg("reached already-stored periods, stopping")
			break
		}

		snapshot := extractReport(symbol, report)
		if snapshot == nil {
			log.Debug().Str("Symbol", symbol).Str("Period", period.String()).
				Msg("report carries none of the tracked concepts, discarding")
			continue
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots
}

// extractReport scans every section of a filed report for the tracked
// accounting concepts and builds a snapshot. When the same concept appears
// more than once the last occurrence wins. Returns nil when revenue, diluted
// EPS, and net income are all absent.
func extractReport(symbol string, report *finnhub.QuarterlyReport) *data.FinancialSnapshot {
	var revenue, revenueContract, epsDiluted, netIncome *float64

	for _, section := range report.Report {
		for _, item := range section {
			value, ok := asFloat(item.Value)
			if !ok {
				continue
			}

			v := value
			switch item.Concept {
			case conceptRevenue:
				revenue = &v
			case conceptRevenueContract:
				revenueContract = &v
			case conceptEPSDiluted:
				epsDiluted = &v
			case conceptNetIncomeLoss:
				netIncome = &v
			}
		}
	}

	if revenue == nil {
		revenue = revenueContract
	}

	if revenue == nil && epsDiluted == nil && netIncome == nil {
		return nil
	}

	snapshot := &data.FinancialSnapshot{
		Symbol:                  symbol,
		Year:                    report.Year,
		Quarter:                 report.Quarter,
		Revenue:                 revenue,
		EarningsPerShareDiluted: epsDiluted,
		NetIncomeLoss:           netIncome,
	}

	if revenue != nil && netIncome != nil && *revenue != 0 {
		margin := *netIncome / *revenue * 100
		snapshot.NetProfitMargin = &margin
	}

	return snapshot
}
