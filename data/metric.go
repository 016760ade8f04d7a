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
package data

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// MetricSnapshot is a point-in-time capture of the valuation and
// profitability ratios reported for one symbol. Fields are pointers because
// the upstream feed is sparsely populated; an absent ratio is stored as NULL
// rather than zero. Snapshots are immutable once written; the event time
// defaults to the database write time.
type MetricSnapshot struct {
	Symbol    string
	EventTime time.Time

	Week52High                  *float64
	Week52HighDate              *time.Time
	Week52Low                   *float64
	Month3AverageTradingVolume  *float64
	DividendPerShareTTM         *float64
	Day10AverageTradingVolume   *float64
	Beta                        *float64
	EPSTTM                      *float64
	EPSGrowth5Y                 *float64
	RevenueGrowth5Y             *float64
	FocfCagr5Y                  *float64
	NetProfitMarginTTM          *float64
	GrossMarginTTM              *float64
	OperatingMarginTTM          *float64
	ROETTM                      *float64
	ROATTM                      *float64
	ROITTM                      *float64
	CashFlowPerShareTTM         *float64
	PETTM                       *float64
	PfcfShareTTM                *float64
	PSTTM                       *float64
	PBTTM                       *float64
	CurrentDividendYieldTTM     *float64
	DividendGrowthRate5Y        *float64
	PayoutRatioTTM              *float64
	LongTermDebtEquityQuarterly *float64
	CurrentRatioQuarterly       *float64
}

// SaveTx writes the snapshot as a new row. The event_time column is left to
// its database default so the capture timestamp reflects the write time.
func (snapshot *MetricSnapshot) SaveTx(ctx context.Context, tx pgx.Tx) error {
	sql := `INSERT INTO metric_snapshots (
		"symbol",
		"week52_high",
		"week52_high_date",
		"week52_low",
		"month3_average_trading_volume",
		"dividend_per_share_ttm",
		"day10_average_trading_volume",
		"beta",
		"eps_ttm",
		"eps_growth_5y",
		"revenue_growth_5y",
		"focf_cagr_5y",
		"net_profit_margin_ttm",
		"gross_margin_ttm",
		"operating_margin_ttm",
		"roe_ttm",
		"roa_ttm",
		"roi_ttm",
		"cash_flow_per_share_ttm",
		"pe_ttm",
		"pfcf_share_ttm",
		"ps_ttm",
		"pb_ttm",
		"current_dividend_yield_ttm",
		"dividend_growth_rate_5y",
		"payout_ratio_ttm",
		"long_term_debt_equity_quarterly",
		"current_ratio_quarterly"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
	)`

	_, err := tx.Exec(ctx, sql, snapshot.Symbol,
		snapshot.Week52High, snapshot.Week52HighDate, snapshot.Week52Low,
		snapshot.Month3AverageTradingVolume, snapshot.DividendPerShareTTM,
		snapshot.Day10AverageTradingVolume, snapshot.Beta, snapshot.EPSTTM,
		snapshot.EPSGrowth5Y, snapshot.RevenueGrowth5Y, snapshot.FocfCagr5Y,
		snapshot.NetProfitMarginTTM, snapshot.GrossMarginTTM,
		snapshot.OperatingMarginTTM, snapshot.ROETTM, snapshot.ROATTM,
		snapshot.ROITTM, snapshot.CashFlowPerShareTTM, snapshot.PETTM,
		snapshot.PfcfShareTTM, snapshot.PSTTM, snapshot.PBTTM,
		snapshot.CurrentDividendYieldTTM, snapshot.DividendGrowthRate5Y,
		snapshot.PayoutRatioTTM, snapshot.LongTermDebtEquityQuarterly,
		snapshot.CurrentRatioQuarterly)
	return err
}

func (snapshot *MetricSnapshot) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Symbol", snapshot.Symbol)
	if !snapshot.EventTime.IsZero() {
		e.Time("EventTime", snapshot.EventTime)
	}
}
