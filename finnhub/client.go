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
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const apiURL = "https://finnhub.io/api/v1"

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
)

// Client reads fundamental data from the Finnhub REST API. Every request
// goes through the gateway so the configured rate ceiling holds across all
// endpoints.
type Client struct {
	api     *resty.Client
	gateway *Gateway
}

func NewClient(apiKey string, throttle Throttle) *Client {
	api := resty.New().SetBaseURL(apiURL).SetQueryParam("token", apiKey)
	api.JSONMarshal = json.Marshal
	api.JSONUnmarshal = json.Unmarshal

	return &Client{
		api:     api,
		gateway: NewGateway(throttle),
	}
}

// BasicFinancials is the response of /stock/metric. Metric holds the flat
// mapping of externally-defined metric names to raw values; value types vary
// by metric so coercion is left to the caller.
type BasicFinancials struct {
	Symbol string         `json:"symbol"`
	Metric map[string]any `json:"metric"`
}

// ReportedFinancials is the response of /stock/financials-reported. Data is
// ordered newest-first by the API.
type ReportedFinancials struct {
	Symbol string             `json:"symbol"`
	CIK    string             `json:"cik"`
	Data   []*QuarterlyReport `json:"data"`
}

// QuarterlyReport is one filed quarter. Report maps a section name (bs, ic,
// cf) to its line items.
type QuarterlyReport struct {
	Year      int                     `json:"year"`
	Quarter   int                     `json:"quarter"`
	Form      string                  `json:"form"`
	StartDate string                  `json:"startDate"`
	EndDate   string                  `json:"endDate"`
	Report    map[string][]ReportItem `json:"report"`
}

// ReportItem is a single line item within a report section. Value arrives as
// either a JSON number or a string depending on the filing.
type ReportItem struct {
	Concept string `json:"concept"`
	Unit    string `json:"unit"`
	Label   string `json:"label"`
	Value   any    `json:"value"`
}

// CompanyProfile is the response of /stock/profile2.
type CompanyProfile struct {
	Name            string `json:"name"`
	Ticker          string `json:"ticker"`
	Exchange        string `json:"exchange"`
	IPO             string `json:"ipo"`
	WebURL          string `json:"weburl"`
	FinnhubIndustry string `json:"finnhubIndustry"`
	Country         string `json:"country"`
	Currency        string `json:"currency"`
}

// StockSymbol is one entry of /stock/symbol.
type StockSymbol struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	Mic           string `json:"mic"`
	Currency      string `json:"currency"`
	Figi          string `json:"figi"`
}

// BasicFinancials fetches the current ratio/metric snapshot for a symbol.
func (client *Client) BasicFinancials(ctx context.Context, symbol string) (*BasicFinancials, error) {
	financials := &BasicFinancials{}
	err := client.get(ctx, "/stock/metric", map[string]string{
		"symbol": symbol,
		"metric": "all",
	}, financials)
	if err != nil {
		return nil, err
	}
	return financials, nil
}

// QuarterlyReports fetches the quarterly reported financials for a symbol.
func (client *Client) QuarterlyReports(ctx context.Context, symbol string) (*ReportedFinancials, error) {
	reported := &ReportedFinancials{}
	err := client.get(ctx, "/stock/financials-reported", map[string]string{
		"symbol": symbol,
		"freq":   "quarterly",
	}, reported)
	if err != nil {
		return nil, err
	}
	return reported, nil
}

// Profile fetches descriptive profile data for a symbol.
func (client *Client) Profile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	profile := &CompanyProfile{}
	err := client.get(ctx, "/stock/profile2", map[string]string{
		"symbol": symbol,
	}, profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Symbols lists every security Finnhub tracks for an exchange.
func (client *Client) Symbols(ctx context.Context, exchange string) ([]StockSymbol, error) {
	symbols := make([]StockSymbol, 0, 10000)
	err := client.get(ctx, "/stock/symbol", map[string]string{
		"exchange": exchange,
	}, &symbols)
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

func (client *Client) get(ctx context.Context, path string, params map[string]string, result any) error {
	return client.gateway.Do(ctx, func() error {
		resp, err := client.api.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(result).
			Get(path)
		if err != nil {
			log.Error().Err(err).Str("URL", path).Msg("resty returned an error when querying finnhub")
			return err
		}

		if resp.StatusCode() >= 300 {
			log.Error().Int("StatusCode", resp.StatusCode()).Str("URL", path).
				Str("ResponseBody", string(resp.Body())).
				Msg("received an invalid status code from finnhub")
			return fmt.Errorf("%w (%d): %s", ErrInvalidStatusCode, resp.StatusCode(), string(resp.Body()))
		}

		return nil
	})
}
