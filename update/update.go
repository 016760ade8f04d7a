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

// Package update drives the batch passes that refresh the fundamentals
// database: ratio snapshots, quarterly reported financials, and the company
// universe. Each pass iterates the symbol universe sequentially and isolates
// failures per symbol so one bad symbol never stops the batch.
package update

import (
	"context"
	"time"

	"github.com/fundvault/fvdata/data"
	"github.com/fundvault/fvdata/finnhub"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MarketData is the slice of the Finnhub client the update passes consume.
type MarketData interface {
	BasicFinancials(ctx context.Context, symbol string) (*finnhub.BasicFinancials, error)
	QuarterlyReports(ctx context.Context, symbol string) (*finnhub.ReportedFinancials, error)
	Profile(ctx context.Context, symbol string) (*finnhub.CompanyProfile, error)
	Symbols(ctx context.Context, exchange string) ([]finnhub.StockSymbol, error)
}

// MetricStore is the persistence surface of the metrics pass.
type MetricStore interface {
	Symbols(ctx context.Context) ([]string, error)
	HasMetricSnapshotSince(ctx context.Context, symbol string, since time.Time) (bool, error)
	SaveMetricSnapshot(ctx context.Context, snapshot *data.MetricSnapshot) error
}

// FinancialStore is the persistence surface of the financials pass.
// SaveFinancialPeriods commits once per symbol; a period that collides with
// an existing (symbol, year, quarter) row is rolled back individually and
// not counted.
type FinancialStore interface {
	Symbols(ctx context.Context) ([]string, error)
	LatestPeriod(ctx context.Context, symbol string) (data.Period, bool, error)
	SaveFinancialPeriods(ctx context.Context, symbol string, snapshots []*data.FinancialSnapshot) (int, error)
}

// CompanyStore is the persistence surface of the company universe refresh.
// SaveCompanies upserts the batch in a single transaction.
type CompanyStore interface {
	SaveCompanies(ctx context.Context, companies []*data.Company) error
}

// RunSummary captures the outcome of one update pass.
type RunSummary struct {
	RunID     uuid.UUID
	Task      string
	StartTime time.Time
	EndTime   time.Time

	Processed int
	Skipped   int
	Added     int
	Failed    int
}

func newRunSummary(task string) RunSummary {
	return RunSummary{
		RunID:     uuid.New(),
		Task:      task,
		StartTime: time.Now(),
	}
}

func (summary *RunSummary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("RunID", summary.RunID.String())
	e.Str("Task", summary.Task)
	e.Int("Processed", summary.Processed)
	e.Int("Skipped", summary.Skipped)
	e.Int("Added", summary.Added)
	e.Int("Failed", summary.Failed)
	e.Dur("RunTime", summary.EndTime.Sub(summary.StartTime))
}
