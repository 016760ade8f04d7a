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

// Company is a listed company tracked by the database. The ticker symbol is
// the primary identity; metric and financial snapshots reference it.
type Company struct {
	Symbol      string
	Name        string
	IPODate     *time.Time
	WebURL      string
	Sector      string
	LastUpdated time.Time
}

// SaveTx inserts the company or, when the symbol already exists, updates its
// descriptive fields in place.
func (company *Company) SaveTx(ctx context.Context, tx pgx.Tx) error {
	sql := `INSERT INTO companies (
		"symbol",
		"name",
		"ipo_date",
		"web_url",
		"sector",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4, $5, $6
	) ON CONFLICT (symbol) DO UPDATE SET
		name = EXCLUDED.name,
		ipo_date = EXCLUDED.ipo_date,
		web_url = EXCLUDED.web_url,
		sector = EXCLUDED.sector,
		last_updated = EXCLUDED.last_updated`

	_, err := tx.Exec(ctx, sql, company.Symbol, company.Name, company.IPODate,
		company.WebURL, company.Sector, company.LastUpdated)
	return err
}

func (company *Company) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Symbol", company.Symbol)
	e.Str("Name", company.Name)
	e.Str("Sector", company.Sector)
}
