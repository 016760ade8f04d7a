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
package store

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
)

// FinancialRow is one exported quarterly result. Tagged for both pgxscan and
// gocsv so the same struct serves query and CSV output.
type FinancialRow struct {
	Symbol                  string   `db:"symbol" csv:"symbol"`
	Year                    int      `db:"year" csv:"year"`
	Quarter                 int      `db:"quarter" csv:"quarter"`
	Revenue                 *float64 `db:"revenue" csv:"revenue"`
	EarningsPerShareDiluted *float64 `db:"earnings_per_share_diluted" csv:"earnings_per_share_diluted"`
	NetIncomeLoss           *float64 `db:"net_income_loss" csv:"net_income_loss"`
	NetProfitMargin         *float64 `db:"net_profit_margin" csv:"net_profit_margin"`
}

// FinancialRows returns every stored quarterly result ordered by symbol and
// period, newest first within a symbol.
func (store *Store) FinancialRows(ctx context.Context) ([]*FinancialRow, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows := make([]*FinancialRow, 0, 10000)
	err = pgxscan.Select(ctx, conn, &rows,
		`SELECT symbol, year, quarter, revenue, earnings_per_share_diluted,
			net_income_loss, net_profit_margin
		FROM financial_snapshots
		ORDER BY symbol, year DESC, quarter DESC`)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
