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
	"strconv"
	"time"

	"github.com/fundvault/fvdata/data"
	"github.com/rs/zerolog/log"
)

const week52HighDateKey = "52WeekHighDate"

// ExtractMetrics maps the flat Finnhub metric payload for one symbol into a
// MetricSnapshot. A source key that is absent, null, or fails to parse
// leaves the destination field nil; a parse failure additionally logs a
// warning. No single field can abort extraction of the rest.
func ExtractMetrics(symbol string, metrics map[string]any) *data.MetricSnapshot {
	snapshot := &data.MetricSnapshot{Symbol: symbol}

	fields := []struct {
		key string
		dst **float64
	}{
		{"52WeekHigh", &snapshot.Week52High},
		{"52WeekLow", &snapshot.Week52Low},
		{"3MonthAverageTradingVolume", &snapshot.Month3AverageTradingVolume},
		{"dividendPerShareTTM", &snapshot.DividendPerShareTTM},
		{"10DayAverageTradingVolume", &snapshot.Day10AverageTradingVolume},
		{"beta", &snapshot.Beta},
		{"epsTTM", &snapshot.EPSTTM},
		{"epsGrowth5Y", &snapshot.EPSGrowth5Y},
		{"revenueGrowth5Y", &snapshot.RevenueGrowth5Y},
		{"focfCagr5Y", &snapshot.FocfCagr5Y},
		{"netProfitMarginTTM", &snapshot.NetProfitMarginTTM},
		{"grossMarginTTM", &snapshot.GrossMarginTTM},
		{"operatingMarginTTM", &snapshot.OperatingMarginTTM},
		{"roeTTM", &snapshot.ROETTM},
		{"roaTTM", &snapshot.ROATTM},
		{"roiTTM", &snapshot.ROITTM},
		{"cashFlowPerShareTTM", &snapshot.CashFlowPerShareTTM},
		{"peTTM", &snapshot.PETTM},
		{"pfcfShareTTM", &snapshot.PfcfShareTTM},
		{"psTTM", &snapshot.PSTTM},
		{"pbTTM", &snapshot.PBTTM},
		{"currentDividendYieldTTM", &snapshot.CurrentDividendYieldTTM},
		{"dividendGrowthRate5Y", &snapshot.DividendGrowthRate5Y},
		{"payoutRatioTTM", &snapshot.PayoutRatioTTM},
		{"longTermDebt/equityQuarterly", &snapshot.LongTermDebtEquityQuarterly},
		{"currentRatioQuarterly", &snapshot.CurrentRatioQuarterly},
	}

	for _, field := range fields {
		raw, ok := metrics[field.key]
		if !ok || raw == nil {
			continue
		}

		value, ok := asFloat(raw)
		if !ok {
			log.Warn().Str("Symbol", symbol).Str("Metric", field.key).
				Interface("Value", raw).Msg("could not parse metric value as a number")
			continue
		}

		*field.dst = &value
	}

	if raw, ok := metrics[week52HighDateKey]; ok && raw != nil {
		if str, ok := raw.(string); ok {
			if parsed, err := time.Parse("2006-01-02", str); err == nil {
				snapshot.Week52HighDate = &parsed
			} else {
				log.Warn().Err(err).Str("Symbol", symbol).Str("Metric", week52HighDateKey).
					Str("Value", str).Msg("could not parse metric value as a date")
			}
		} else {
			log.Warn().Str("Symbol", symbol).Str("Metric", week52HighDateKey).
				Interface("Value", raw).Msg("could not parse metric value as a date")
		}
	}

	return snapshot
}

// asFloat coerces a raw JSON value to float64. Finnhub reports most values
// as numbers but falls back to strings for some filings.
func asFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
