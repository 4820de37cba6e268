package search

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// Page is one raw response of the search API.
type Page = json.RawMessage

type pageItems struct {
	Items []json.RawMessage `json:"items"`
}

func (c *Client) search(ctx context.Context, params *Params) ([]Page, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	q := buildParams(params)
	q.Set("key", c.apiKey)

	var pages []Page
	for start := 1; start <= maxStart && len(pages) < params.MaxResults; start += params.PerPage {
		if err := c.limiter.Wait(ctx); err != nil {
			return pages, fmt.Errorf("waiting for search rate limit: %w", err)
		}

		q.Set("start", strconv.Itoa(start))

		page, items, err := c.getPage(ctx, q.Encode())
		if err != nil {
			return pages, err
		}

		pages = append(pages, page)

		c.logger.Debug("got search page", zap.Int("start", start), zap.Int("items", items))

		if items == 0 {
			c.logger.Debug("stopping search", zap.String("reason", "page has no items"))
			break
		}
	}

	return pages, nil
}

func (c *Client) getPage(ctx context.Context, rawQuery string) (Page, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, 0, err
	}

	req = c.setHeaders(req)
	req.URL.RawQuery = rawQuery

	resp, err := c.request(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, 0, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("search api error: %s %s", resp.Status, data)
	}

	var parsed pageItems
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, 0, fmt.Errorf("decode search page: %w", err)
	}

	return Page(data), len(parsed.Items), nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	// The query carries the API key, so only the path is logged.
	c.logger.Debug("make request", zap.String("url", req.URL.Path), zap.String("start", req.URL.Query().Get("start")))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
