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
package finnhub

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle gates outbound API calls. *rate.Limiter satisfies it.
type Throttle interface {
	Wait(ctx context.Context) error
}

// DefaultThrottle serializes calls to at most one every 1.25 seconds, the
// ceiling the free Finnhub tier tolerates for sustained batch use.
func DefaultThrottle() *rate.Limiter {
	return rate.NewLimiter(rate.Every(1250*time.Millisecond), 1)
}

// Gateway wraps a fallible call behind a throttle policy. It blocks until
// call capacity is available and then invokes the operation; errors from the
// operation pass through untouched. There is no retry.
type Gateway struct {
	throttle Throttle
}

func NewGateway(throttle Throttle) *Gateway {
	if throttle == nil {
		throttle = DefaultThrottle()
	}
	return &Gateway{throttle: throttle}
}

// Do waits for call capacity and then runs op.
func (gateway *Gateway) Do(ctx context.Context, op func() error) error {
	if err := gateway.throttle.Wait(ctx); err != nil {
		return err
	}
	return op()
}
