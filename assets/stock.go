package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"shortsmith/config"
)

// ImageSearcher is the stock-image service boundary: keyword in, ordered
// image URLs out. Any error from it degrades to local placeholders and
// never propagates past the Provider.
type ImageSearcher interface {
	Search(ctx context.Context, keyword string, limit int) ([]string, error)
}

// StockSearcher queries a Pexels-style keyword search API. The API key is
// read from STOCK_API_KEY; without one every search fails, which callers
// treat the same as an empty result.
type StockSearcher struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewStockSearcher builds the default searcher from config and environment.
func NewStockSearcher(cfg *config.Config) *StockSearcher {
	return &StockSearcher{
		endpoint: cfg.Stock.Endpoint,
		apiKey:   os.Getenv("STOCK_API_KEY"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Stock.TimeoutSec) * time.Second,
		},
	}
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Portrait string `json:"portrait"`
			Large    string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// Search returns up to limit image URLs for a keyword, preferring the
// portrait rendition since the output frame is vertical.
func (s *StockSearcher) Search(ctx context.Context, keyword string, limit int) ([]string, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("STOCK_API_KEY not set")
	}

	q := url.Values{}
	q.Set("query", keyword)
	q.Set("per_page", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from stock API", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode stock response: %w", err)
	}

	var urls []string
	for _, photo := range parsed.Photos {
		u := photo.Src.Portrait
		if u == "" {
			u = photo.Src.Large
		}
		if u != "" {
			urls = append(urls, u)
		}
		if len(urls) >= limit {
			break
		}
	}
	return urls, nil
}
