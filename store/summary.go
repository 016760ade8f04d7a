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
	"fmt"
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NumCompanies returns the total count of companies tracked in the database
func (store *Store) NumCompanies(ctx context.Context) (int, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM companies").Scan(&count)
	return count, err
}

// NumMetricSnapshots returns the total count of stored metric snapshots
func (store *Store) NumMetricSnapshots(ctx context.Context) (int, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM metric_snapshots").Scan(&count)
	return count, err
}

// NumFinancialSnapshots returns the total count of stored quarterly results
func (store *Store) NumFinancialSnapshots(ctx context.Context) (int, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM financial_snapshots").Scan(&count)
	return count, err
}

// LastUpdated returns the time of the most recent metric snapshot
func (store *Store) LastUpdated(ctx context.Context) (time.Time, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastUpdated time.Time
	err = conn.QueryRow(ctx,
		"SELECT coalesce(max(event_time), '0001-01-01'::timestamp) FROM metric_snapshots").Scan(&lastUpdated)
	if err != nil {
		return time.Time{}, err
	}

	return lastUpdated, nil
}

// Summary returns a description of the database in markdown
func (store *Store) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString("# fvdata\n## Details\n\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", store.DBUrl)); err != nil {
		return "", err
	}

	numCompanies, err := store.NumCompanies(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Companies Tracked: %d\n", numCompanies)); err != nil {
		return "", err
	}

	numMetrics, err := store.NumMetricSnapshots(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Metric Snapshots: %d\n", numMetrics)); err != nil {
		return "", err
	}

	numFinancials, err := store.NumFinancialSnapshots(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Quarterly Results: %d\n\n", numFinancials)); err != nil {
		return "", err
	}

	lastUpdated, err := store.LastUpdated(ctx)
	if err != nil {
		return "", err
	}

	if lastUpdated.Equal(time.Time{}) {
		if _, err := builder.WriteString("Last Updated: Never\n"); err != nil {
			return "", err
		}
	} else {
		age := timeago.English.Format(lastUpdated)
		if _, err := builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n", age, lastUpdated.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}
