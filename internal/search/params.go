package search

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Params describes one search. Fields tagged with cseparam are sent as query parameters.
type Params struct {
	EngineID     string   `mapstructure:"engine-id" cseparam:"cx"`
	Query        string   `mapstructure:"query" cseparam:"q"`
	DateRestrict string   `mapstructure:"date-restrict" cseparam:"dateRestrict"`
	Language     string   `mapstructure:"language" cseparam:"lr"`
	ExcludeTerms []string `mapstructure:"exclude-terms" cseparam:"excludeTerms"`
	PerPage      int      `mapstructure:"per-page" cseparam:"num"`
	// MaxResults caps the number of pages collected.
	MaxResults int `mapstructure:"max-results"`
}

// Validate fills defaults and checks the required fields.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("search params are required")
	}
	if strings.TrimSpace(p.EngineID) == "" {
		return fmt.Errorf("search engine id is required")
	}
	if strings.TrimSpace(p.Query) == "" {
		return fmt.Errorf("search query is required")
	}

	if p.PerPage <= 0 || p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if p.MaxResults <= 0 {
		p.MaxResults = defaultMaxPages
	}

	return nil
}

func buildParams(params *Params) url.Values {
	q := url.Values{}
	value := reflect.ValueOf(params).Elem()

	for _, field := range reflect.VisibleFields(value.Type()) {
		key := field.Tag.Get("cseparam")
		if key == "" {
			continue
		}

		switch v := value.FieldByIndex(field.Index).Interface().(type) {
		case []string:
			// Multiple exclusions are joined with spaces by the API.
			if len(v) > 0 {
				q.Set(key, strings.Join(v, " "))
			}
		case int:
			if v != 0 {
				q.Set(key, strconv.Itoa(v))
			}
		case string:
			if s := strings.TrimSpace(v); s != "" {
				q.Set(key, s)
			}
		}
	}

	return q
}
