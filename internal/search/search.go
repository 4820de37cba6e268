package search

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/job-ranker/internal/logger"
)

const (
	apiURL    = "https://www.googleapis.com/customsearch/v1"
	userAgent = "spigell/job-ranker"

	// The JSON API refuses num above 10 and start above 100.
	maxPerPage = 10
	maxStart   = 100

	defaultMaxPages = 50
)

type Client struct {
	apiKey     string
	logger     *zap.Logger
	limiter    *rate.Limiter
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New returns a client for the Programmable Search JSON API that sends at most one request per second.
func New(apiKey string, log *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		logger:  logger.WithFields(log),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		UserAgent: userAgent,
		APIURL:    apiURL,
	}
}

// Search fetches result pages for params and returns them unmodified.
func (c *Client) Search(ctx context.Context, params *Params) ([]Page, error) {
	return c.search(ctx, params)
}
