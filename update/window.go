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

	"github.com/rs/zerolog/log"
)

// The nightly window opens at 18:00 local market time and runs through 02:00
// the next morning. A symbol whose metrics were already captured inside the
// current window is not fetched again.
const (
	windowOpenHour = 18
	windowTailHour = 2
)

var marketTZ *time.Location

func init() {
	var err error
	marketTZ, err = time.LoadLocation("America/New_York")
	if err != nil {
		log.Panic().Err(err).Msg("could not load timezone")
	}
}

// windowStart returns the opening instant of the nightly window that now
// belongs to. Between midnight and 02:00 now is in the tail of yesterday's
// window; any other time maps to today's 18:00 opening, which may still lie
// in the future (in which case no snapshot can precede it and the skip check
// naturally passes).
func windowStart(now time.Time) time.Time {
	now = now.In(marketTZ)

	day := now
	if now.Hour() < windowTailHour {
		day = now.AddDate(0, 0, -1)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), windowOpenHour, 0, 0, 0, marketTZ)
}
