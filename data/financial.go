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
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Period identifies one fiscal quarter.
type Period struct {
	Year    int
	Quarter int
}

// After reports whether p is strictly newer than other, comparing year first
// and quarter second.
func (p Period) After(other Period) bool {
	if p.Year != other.Year {
		return p.Year > other.Year
	}
	return p.Quarter > other.Quarter
}

func (p Period) String() string {
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// FinancialSnapshot is one quarterly reported financial result for a symbol.
// At most one row exists per (symbol, year, quarter); the database enforces
// this with a unique constraint. Value fields are pointers because a filing
// may report only a subset of the tracked concepts.
type FinancialSnapshot struct {
	Symbol    string
	EventTime time.Time
	Year      int
	Quarter   int

	Revenue                 *float64
	EarningsPerShareDiluted *float64
	NetIncomeLoss           *float64
	NetProfitMargin         *float64
}

// Period returns the fiscal quarter the snapshot covers.
func (snapshot *FinancialSnapshot) Period() Period {
	return Period{Year: snapshot.Year, Quarter: snapshot.Quarter}
}

// SaveTx inserts the snapshot. The unique constraint on
// (symbol, year, quarter) surfaces as a pgconn.PgError with
// pgerrcode.UniqueViolation when the period already exists; callers decide
// how to treat it.
func (snapshot *FinancialSnapshot) SaveTx(ctx context.Context, tx pgx.Tx) error {
	sql := `INSERT INTO financial_snapshots (
		"symbol",
		"year",
		"quarter",
		"revenue",
		"earnings_per_share_diluted",
		"net_income_loss",
		"net_profit_margin"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)`

	_, err := tx.Exec(ctx, sql, snapshot.Symbol, snapshot.Year,
		snapshot.Quarter, snapshot.Revenue, snapshot.EarningsPerShareDiluted,
		snapshot.NetIncomeLoss, snapshot.NetProfitMargin)
	return err
}

func (snapshot *FinancialSnapshot) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Symbol", snapshot.Symbol)
	e.Int("Year", snapshot.Year)
	e.Int("Quarter", snapshot.Quarter)
}
