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
	"github.com/rs/zerolog/log"
)

// Commit every companyBatchSize upserts to bound transaction size without
// paying a commit per symbol.
const companyBatchSize = 25

// Primary listing venues; listings on other MICs are secondary and skipped.
var primaryVenues = map[string]bool{
	"XNYS": true,
	"XNAS": true,
	"XASE": true,
	"ARCX": true,
	"BATS": true,
}

// Companies refreshes the company universe for an exchange: list all
// symbols, keep common stock on primary venues, fetch each profile, and
// insert or update the company row. Upserts are committed in batches.
func Companies(ctx context.Context, api MarketData, store CompanyStore, exchange string) RunSummary {
	summary := newRunSummary("companies")
	logger := log.With().Str("RunID", summary.RunID.String()).Str("Exchange", exchange).Logger()

	defer func() {
		summary.EndTime = time.Now()
		logger.Info().Object("Summary", &summary).Msg("company universe refresh finished")
	}()

	listings, err := api.Symbols(ctx, exchange)
	if err != nil {
		logger.Error().Err(err).Msg("could not list symbols for exchange")
		return summary
	}

	logger.Info().Int("NumListings", len(listings)).Msg("got listings from finnhub")

	batch := make([]*data.Company, 0, companyBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := store.SaveCompanies(ctx, batch); err != nil {
			logger.Error().Err(err).Int("BatchSize", len(batch)).Msg("could not save company batch")
			summary.Failed += len(batch)
		} else {
			summary.Added += len(batch)
		}
		batch = batch[:0]
	}

	for _, listing := range listings {
		if listing.Type != "Common Stock" || !primaryVenues[listing.Mic] {
			continue
		}

		summary.Processed++

		profile, err := api.Profile(ctx, listing.Symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", listing.Symbol).Msg("could not fetch company profile")
			summary.Failed++
			continue
		}

		company := &data.Company{
			Symbol:      listing.Symbol,
			Name:        profile.Name,
			WebURL:      profile.WebURL,
			Sector:      profile.FinnhubIndustry,
			LastUpdated: time.Now(),
		}

		if profile.IPO != "" {
			if ipo, err := time.Parse("2006-01-02", profile.IPO); err == nil {
				company.IPODate = &ipo
			} else {
				log.Warn().Err(err).Str("Symbol", listing.Symbol).Str("IPO", profile.IPO).
					Msg("could not parse IPO date")
			}
		}

		batch = append(batch, company)
		if len(batch) >= companyBatchSize {
			flush()
		}
	}

	flush()

	return summary
}
