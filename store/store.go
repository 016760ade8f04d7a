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

// Package store is the persistence boundary over PostgreSQL. It exposes only
// the operations the update passes need and owns all transaction scopes: one
// transaction per metric snapshot, one per company batch, and one per symbol
// for financials with a savepoint per period insert.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/fundvault/fvdata/data"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Store struct {
	DBUrl string
	Pool  *pgxpool.Pool
}

// Open connects to the database identified by dbURL.
func Open(ctx context.Context, dbURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	return &Store{
		DBUrl: dbURL,
		Pool:  pool,
	}, nil
}

// Close the database pool
func (store *Store) Close() {
	store.Pool.Close()
}

// Symbols returns every tracked company symbol in the order the database
// yields them.
func (store *Store) Symbols(ctx context.Context) ([]string, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	symbols := make([]string, 0, 6000)
	if err := pgxscan.Select(ctx, conn, &symbols, `SELECT symbol FROM companies`); err != nil {
		return nil, err
	}

	return symbols, nil
}

// HasMetricSnapshotSince reports whether a metric snapshot for the symbol
// was captured at or after the given instant.
func (store *Store) HasMetricSnapshotSince(ctx context.Context, symbol string, since time.Time) (bool, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	exists := false
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM metric_snapshots WHERE symbol=$1 AND event_time >= $2)`,
		symbol, since).Scan(&exists)
	return exists, err
}

// LatestPeriod returns the newest (year, quarter) stored for the symbol. The
// second return value is false when no financial snapshot exists yet.
func (store *Store) LatestPeriod(ctx context.Context, symbol string) (data.Period, bool, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return data.Period{}, false, err
	}
	defer conn.Release()

	var period data.Period
	err = conn.QueryRow(ctx,
		`SELECT year, quarter FROM financial_snapshots WHERE symbol=$1 ORDER BY year DESC, quarter DESC LIMIT 1`,
		symbol).Scan(&period.Year, &period.Quarter)
	if errors.Is(err, pgx.ErrNoRows) {
		return data.Period{}, false, nil
	}
	if err != nil {
		return data.Period{}, false, err
	}

	return period, true, nil
}

// SaveMetricSnapshot writes the snapshot in its own transaction.
func (store *Store) SaveMetricSnapshot(ctx context.Context, snapshot *data.MetricSnapshot) error {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	if err := snapshot.SaveTx(ctx, tx); err != nil {
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rolling back metric snapshot transaction")
		}
		return err
	}

	return tx.Commit(ctx)
}

// SaveFinancialPeriods inserts the snapshots for one symbol inside a single
// transaction, with a savepoint around each insert. A unique violation on
// (symbol, year, quarter) means the period is already stored; that savepoint
// is rolled back silently and the rest proceed. Other insert failures roll
// back their savepoint and are logged. Returns the number of rows actually
// added.
func (store *Store) SaveFinancialPeriods(ctx context.Context, symbol string, snapshots []*data.FinancialSnapshot) (int, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}

	added := 0

	for _, snapshot := range snapshots {
		inner, err := tx.Begin(ctx)
		if err != nil {
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Str("Symbol", symbol).Msg("error rolling back financials transaction")
			}
			return 0, err
		}

		if err := snapshot.SaveTx(ctx, inner); err != nil {
			if err2 := inner.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Str("Symbol", symbol).Msg("error rolling back period savepoint")
			}

			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				log.Debug().Str("Symbol", symbol).Str("Period", snapshot.Period().String()).
					Msg("period already stored")
				continue
			}

			log.Error().Err(err).Str("Symbol", symbol).Str("Period", snapshot.Period().String()).
				Msg("could not insert financial snapshot")
			continue
		}

		if err := inner.Commit(ctx); err != nil {
			log.Error().Err(err).Str("Symbol", symbol).Msg("error releasing period savepoint")
			continue
		}

		added++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return added, nil
}

// SaveCompanies upserts the batch in a single transaction.
func (store *Store) SaveCompanies(ctx context.Context, companies []*data.Company) error {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	for _, company := range companies {
		if err := company.SaveTx(ctx, tx); err != nil {
			log.Error().Err(err).Object("Company", company).Msg("save company to DB failed")
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rolling back company batch")
			}
			return err
		}
	}

	return tx.Commit(ctx)
}
