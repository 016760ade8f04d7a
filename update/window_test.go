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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("windowStart", func() {
	nyTime := func(year int, month time.Month, day, hour, min int) time.Time {
		return time.Date(year, month, day, hour, min, 0, 0, marketTZ)
	}

	It("maps an evening time to the window that opened the same day", func() {
		start := windowStart(nyTime(2024, 1, 10, 19, 0))
		Expect(start).To(BeTemporally("==", nyTime(2024, 1, 10, 18, 0)))
	})

	It("maps the early-morning tail to the previous day's window", func() {
		start := windowStart(nyTime(2024, 1, 11, 1, 30))
		Expect(start).To(BeTemporally("==", nyTime(2024, 1, 10, 18, 0)))
	})

	It("treats 02:00 exactly as outside the tail", func() {
		start := windowStart(nyTime(2024, 1, 11, 2, 0))
		Expect(start).To(BeTemporally("==", nyTime(2024, 1, 11, 18, 0)))
	})

	It("treats 18:00 exactly as inside the evening window", func() {
		start := windowStart(nyTime(2024, 1, 10, 18, 0))
		Expect(start).To(BeTemporally("==", nyTime(2024, 1, 10, 18, 0)))
	})

	It("maps a mid-day time to the window opening later that day", func() {
		start := windowStart(nyTime(2024, 1, 10, 10, 0))
		Expect(start).To(BeTemporally("==", nyTime(2024, 1, 10, 18, 0)))
	})

	It("stays on local clock time across the spring DST transition", func() {
		// 01:30 on the morning clocks spring forward still belongs to the
		// window that opened at 18:00 the evening before
		start := windowStart(nyTime(2024, 3, 10, 1, 30))
		Expect(start).To(BeTemporally("==", nyTime(2024, 3, 9, 18, 0)))
	})

	It("normalizes instants from other zones to market time", func() {
		// 23:30 UTC on Jan 10 is 18:30 in New York
		start := windowStart(time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC))
		Expect(start).To(BeTemporally("==", nyTime(2024, 1, 10, 18, 0)))
	})
})
