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
	"fmt"
	"time"

	"github.com/fundvault/fvdata/finnhub"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Companies", func() {
	var (
		api   *fakeAPI
		store *fakeCompanyStore
	)

	BeforeEach(func() {
		api = &fakeAPI{
			profiles: map[string]*finnhub.CompanyProfile{},
			fail:     map[string]error{},
		}
		store = &fakeCompanyStore{}
	})

	It("keeps common stock on primary venues and drops the rest", func() {
		api.listings = []finnhub.StockSymbol{
			{Symbol: "AAPL", Type: "Common Stock", Mic: "XNAS"},
			{Symbol: "BRK.A", Type: "Common Stock", Mic: "XNYS"},
			{Symbol: "SPY", Type: "ETP", Mic: "ARCX"},
			{Symbol: "AAPL-LSE", Type: "Common Stock", Mic: "XLON"},
		}

		summary := Companies(context.Background(), api, store, "US")

		Expect(summary.Processed).To(Equal(2))
		Expect(summary.Added).To(Equal(2))
		Expect(store.batches).To(HaveLen(1))
		Expect(store.batches[0]).To(HaveLen(2))
		Expect(store.batches[0][0].Symbol).To(Equal("AAPL"))
		Expect(store.batches[0][1].Symbol).To(Equal("BRK.A"))
	})

	It("commits in batches of twenty five", func() {
		for i := 0; i < 27; i++ {
			api.listings = append(api.listings, finnhub.StockSymbol{
				Symbol: fmt.Sprintf("SYM%02d", i),
				Type:   "Common Stock",
				Mic:    "XNYS",
			})
		}

		summary := Companies(context.Background(), api, store, "US")

		Expect(summary.Added).To(Equal(27))
		Expect(store.batches).To(HaveLen(2))
		Expect(store.batches[0]).To(HaveLen(25))
		Expect(store.batches[1]).To(HaveLen(2))
	})

	It("continues when a profile fetch fails", func() {
		api.listings = []finnhub.StockSymbol{
			{Symbol: "AAPL", Type: "Common Stock", Mic: "XNAS"},
			{Symbol: "MSFT", Type: "Common Stock", Mic: "XNAS"},
		}
		api.fail["MSFT"] = errors.New("finnhub is down")

		summary := Companies(context.Background(), api, store, "US")

		Expect(summary.Failed).To(Equal(1))
		Expect(summary.Added).To(Equal(1))
		Expect(store.batches[0][0].Symbol).To(Equal("AAPL"))
	})

	It("parses the IPO date and tolerates a malformed one", func() {
		api.listings = []finnhub.StockSymbol{
			{Symbol: "AAPL", Type: "Common Stock", Mic: "XNAS"},
			{Symbol: "MSFT", Type: "Common Stock", Mic: "XNAS"},
		}
		api.profiles["AAPL"] = &finnhub.CompanyProfile{
			Name: "Apple Inc", Ticker: "AAPL", IPO: "1980-12-12",
		}
		api.profiles["MSFT"] = &finnhub.CompanyProfile{
			Name: "Microsoft Corp", Ticker: "MSFT", IPO: "unknown",
		}

		Companies(context.Background(), api, store, "US")

		Expect(store.batches[0][0].IPODate).To(HaveValue(Equal(
			time.Date(1980, 12, 12, 0, 0, 0, 0, time.UTC))))
		Expect(store.batches[0][1].IPODate).To(BeNil())
		Expect(store.batches[0][1].Name).To(Equal("Microsoft Corp"))
	})
})
