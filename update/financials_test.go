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
	"errors"

	"github.com/fundvault/fvdata/data"
	"github.com/fundvault/fvdata/finnhub"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func quarterlyReport(year, quarter int, items ...finnhub.ReportItem) *finnhub.QuarterlyReport {
	return &finnhub.QuarterlyReport{
		Year:    year,
		Quarter: quarter,
		Form:    "10-Q",
		Report:  map[string][]finnhub.ReportItem{"ic": items},
	}
}

var _ = Describe("extractReport", func() {
	It("computes the net profit margin from revenue and net income", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: conceptRevenue, Value: 1000000.0},
			finnhub.ReportItem{Concept: conceptNetIncomeLoss, Value: 50000.0},
		))

		Expect(snapshot).NotTo(BeNil())
		Expect(snapshot.Revenue).To(HaveValue(Equal(1000000.0)))
		Expect(snapshot.NetIncomeLoss).To(HaveValue(Equal(50000.0)))
		Expect(snapshot.NetProfitMargin).To(HaveValue(Equal(5.0)))
	})

	It("leaves the margin nil when revenue is zero", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: conceptRevenue, Value: 0.0},
			finnhub.ReportItem{Concept: conceptNetIncomeLoss, Value: 50000.0},
		))

		Expect(snapshot).NotTo(BeNil())
		Expect(snapshot.NetProfitMargin).To(BeNil())
	})

	It("leaves the margin nil when net income is absent", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: conceptRevenue, Value: 1000000.0},
		))

		Expect(snapshot).NotTo(BeNil())
		Expect(snapshot.NetProfitMargin).To(BeNil())
	})

	It("discards a period carrying none of the tracked concepts", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: "us-gaap_OperatingExpenses", Value: 42.0},
		))

		Expect(snapshot).To(BeNil())
	})

	It("falls back to the contract revenue concept", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: conceptRevenueContract, Value: 2000000.0},
			finnhub.ReportItem{Concept: conceptNetIncomeLoss, Value: 100000.0},
		))

		Expect(snapshot).NotTo(BeNil())
		Expect(snapshot.Revenue).To(HaveValue(Equal(2000000.0)))
		Expect(snapshot.NetProfitMargin).To(HaveValue(Equal(5.0)))
	})

	It("prefers the primary revenue concept over the fallback", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: conceptRevenueContract, Value: 2000000.0},
			finnhub.ReportItem{Concept: conceptRevenue, Value: 1000000.0},
		))

		Expect(snapshot.Revenue).To(HaveValue(Equal(1000000.0)))
	})

	It("keeps the last occurrence when a concept repeats", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: conceptNetIncomeLoss, Value: 1.0},
			finnhub.ReportItem{Concept: conceptNetIncomeLoss, Value: 2.0},
		))

		Expect(snapshot.NetIncomeLoss).To(HaveValue(Equal(2.0)))
	})

	It("coerces string values and ignores non-numeric ones", func() {
		snapshot := extractReport("AAPL", quarterlyReport(2023, 4,
			finnhub.ReportItem{Concept: conceptRevenue, Value: "1000000"},
			finnhub.ReportItem{Concept: conceptEPSDiluted, Value: "N/A"},
		))

		Expect(snapshot).NotTo(BeNil())
		Expect(snapshot.Revenue).To(HaveValue(Equal(1000000.0)))
		Expect(snapshot.EarningsPerShareDiluted).To(BeNil())
	})
})

var _ = Describe("reconcile", func() {
	It("keeps every usable period for a fresh symbol", func() {
		reports := []*finnhub.QuarterlyReport{
			quarterlyReport(2023, 4, finnhub.ReportItem{Concept: conceptRevenue, Value: 300.0}),
			quarterlyReport(2023, 3, finnhub.ReportItem{Concept: conceptRevenue, Value: 200.0}),
			quarterlyReport(2023, 2, finnhub.ReportItem{Concept: "us-gaap_OperatingExpenses", Value: 1.0}),
			quarterlyReport(2023, 1, finnhub.ReportItem{Concept: conceptRevenue, Value: 100.0}),
		}

		snapshots := reconcile("AAPL", reports, data.Period{}, false)

		Expect(snapshots).To(HaveLen(3))
		Expect(snapshots[0].Quarter).To(Equal(4))
		Expect(snapshots[1].Quarter).To(Equal(3))
		Expect(snapshots[2].Quarter).To(Equal(1))
	})

	It("skips entries missing their period", func() {
		reports := []*finnhub.QuarterlyReport{
			quarterlyReport(2023, 0, finnhub.ReportItem{Concept: conceptRevenue, Value: 300.0}),
			quarterlyReport(0, 2, finnhub.ReportItem{Concept: conceptRevenue, Value: 200.0}),
			quarterlyReport(2023, 1, finnhub.ReportItem{Concept: conceptRevenue, Value: 100.0}),
		}

		snapshots := reconcile("AAPL", reports, data.Period{}, false)

		Expect(snapshots).To(HaveLen(1))
		Expect(snapshots[0].Year).To(Equal(2023))
		Expect(snapshots[0].Quarter).To(Equal(1))
	})

	It("stops at the first period that is not strictly newer than the latest stored", func() {
		reports := []*finnhub.QuarterlyReport{
			quarterlyReport(2024, 1, finnhub.ReportItem{Concept: conceptRevenue, Value: 400.0}),
			quarterlyReport(2023, 4, finnhub.ReportItem{Concept: conceptRevenue, Value: 300.0}),
			quarterlyReport(2023, 3, finnhub.ReportItem{Concept: conceptRevenue, Value: 200.0}),
		}

		snapshots := reconcile("AAPL", reports, data.Period{Year: 2023, Quarter: 4}, true)

		Expect(snapshots).To(HaveLen(1))
		Expect(snapshots[0].Year).To(Equal(2024))
		Expect(snapshots[0].Quarter).To(Equal(1))
	})
})

var _ = Describe("Financials", func() {
	var (
		api   *fakeAPI
		store *fakeFinancialStore
	)

	BeforeEach(func() {
		api = &fakeAPI{
			reports: map[string]*finnhub.ReportedFinancials{
				"AAPL": {Symbol: "AAPL", Data: []*finnhub.QuarterlyReport{
					quarterlyReport(2023, 4, finnhub.ReportItem{Concept: conceptRevenue, Value: 300.0}),
					quarterlyReport(2023, 3, finnhub.ReportItem{Concept: conceptRevenue, Value: 200.0}),
				}},
				"MSFT": {Symbol: "MSFT", Data: []*finnhub.QuarterlyReport{
					quarterlyReport(2023, 4, finnhub.ReportItem{Concept: conceptNetIncomeLoss, Value: 10.0}),
				}},
				"GOOG": {Symbol: "GOOG", Data: []*finnhub.QuarterlyReport{
					quarterlyReport(2023, 4, finnhub.ReportItem{Concept: conceptEPSDiluted, Value: 1.5}),
				}},
			},
			fail: map[string]error{},
		}
		store = newFakeFinancialStore("AAPL", "MSFT", "GOOG")
	})

	It("persists one snapshot per usable period", func() {
		summary := Financials(context.Background(), api, store)

		Expect(summary.Processed).To(Equal(3))
		Expect(summary.Added).To(Equal(4))
		Expect(store.numRows()).To(Equal(4))
	})

	It("continues the batch when one symbol's API call fails", func() {
		api.fail["MSFT"] = errors.New("finnhub is down")

		summary := Financials(context.Background(), api, store)

		Expect(summary.Failed).To(Equal(1))
		Expect(store.rows["AAPL"]).To(HaveLen(2))
		Expect(store.rows["MSFT"]).To(BeEmpty())
		Expect(store.rows["GOOG"]).To(HaveLen(1))
	})

	It("is idempotent against an unchanged feed", func() {
		Financials(context.Background(), api, store)
		countAfterFirst := store.numRows()
		attemptsAfterFirst := len(store.attempts)

		summary := Financials(context.Background(), api, store)

		Expect(store.numRows()).To(Equal(countAfterFirst))
		Expect(summary.Added).To(BeZero())
		// the boundary check makes the second run skip without attempting
		// any insert
		Expect(store.attempts).To(HaveLen(attemptsAfterFirst))
	})
})
