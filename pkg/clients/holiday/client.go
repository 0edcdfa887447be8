// Package holiday wraps a nager.date-compatible public-holiday API. Any
// upstream failure degrades to an empty list rather than an error; holiday
// signals are advisory, never load-bearing.
package holiday

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &Client{http: http}
}

type holidayWire struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// GetHolidays returns the public holidays for a year and country, sorted by
// date. On any upstream failure it returns an empty list.
func (c *Client) GetHolidays(ctx context.Context, year int, countryCode string) []domain.Holiday {
	if countryCode == "" {
		countryCode = "SG"
	}

	var wire []holidayWire
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&wire).
		Get(fmt.Sprintf("/%d/%s", year, countryCode))
	if err != nil {
		log.Warn().Err(err).Int("year", year).Str("country", countryCode).Msg("holiday api unavailable")
		return []domain.Holiday{}
	}
	if resp.IsError() {
		log.Warn().Int("status", resp.StatusCode()).Int("year", year).Str("country", countryCode).Msg("holiday api error")
		return []domain.Holiday{}
	}

	holidays := make([]domain.Holiday, 0, len(wire))
	for _, h := range wire {
		name := h.LocalName
		if name == "" {
			name = h.Name
		}
		holidays = append(holidays, domain.Holiday{Date: h.Date, Name: name})
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date < holidays[j].Date })
	return holidays
}

// IsHoliday reports whether the date is a public holiday in the country,
// with its name when it is.
func (c *Client) IsHoliday(ctx context.Context, date time.Time, countryCode string) (bool, string) {
	dateStr := date.Format(domain.DateFormat)
	for _, h := range c.GetHolidays(ctx, date.Year(), countryCode) {
		if h.Date == dateStr {
			return true, h.Name
		}
	}
	return false, ""
}
