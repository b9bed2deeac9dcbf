// Package assets resolves the visual materials for image_sequence scenes:
// stock imagery by keyword when the service cooperates, synthesized
// placeholders when it does not. Degrading to placeholders is the designed
// path, not an error path.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shortsmith/config"
	"shortsmith/tempfiles"
	"shortsmith/types"
)

// categoryKeywords seed the search terms for known content categories.
var categoryKeywords = map[string][]string{
	"gaming": {"gaming", "esports", "controller", "computer"},
	"anime":  {"anime", "manga", "character", "japanese"},
}

// stopwords are too generic to be useful search terms.
var stopwords = map[string]bool{
	"this": true,
	"that": true,
	"with": true,
	"from": true,
}

const (
	maxKeywords     = 5
	contentKeywords = 3
	searchKeywords  = 2
)

// Provider fetches or synthesizes per-scene imagery.
type Provider struct {
	cfg      *config.Config
	searcher ImageSearcher
	registry *tempfiles.Registry
	client   *http.Client
}

// NewProvider wires a Provider to the given searcher boundary. Pass
// NewStockSearcher(cfg) for the real service.
func NewProvider(cfg *config.Config, searcher ImageSearcher, registry *tempfiles.Registry) *Provider {
	return &Provider{
		cfg:      cfg,
		searcher: searcher,
		registry: registry,
		client: &http.Client{
			Timeout: time.Duration(cfg.Stock.TimeoutSec) * time.Second,
		},
	}
}

// Keywords derives up to 5 search keywords for a scene: category defaults
// first, then up to 3 content words longer than 3 characters that are not
// stopwords.
func Keywords(text, category string) []string {
	keywords := append([]string(nil), categoryKeywords[category]...)

	added := 0
	for _, word := range strings.Fields(text) {
		word = strings.ToLower(strings.Trim(word, `.,!?:;"'()`))
		if len(word) <= 3 || stopwords[word] {
			continue
		}
		keywords = append(keywords, word)
		added++
		if added >= contentKeywords {
			break
		}
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// Fetch returns the image files for one image_sequence scene, at most
// Stock.MaxPerScene of them. It never fails: when the stock boundary
// yields nothing, placeholders are synthesized from the keywords.
func (p *Provider) Fetch(ctx context.Context, scene types.Scene, category string, style types.StyleProfile, workdir string) []string {
	keywords := Keywords(scene.VisualSource, category)

	var images []string
	for i, keyword := range keywords {
		if i >= searchKeywords {
			break
		}
		urls, err := p.searcher.Search(ctx, keyword, p.cfg.Stock.ImagesPerKeyword)
		if err != nil {
			log.Warn().Str("keyword", keyword).Err(err).Msg("stock search degraded")
			continue
		}
		for _, u := range urls {
			path, err := p.download(ctx, u, keyword, workdir)
			if err != nil {
				log.Warn().Str("keyword", keyword).Err(err).Msg("stock download degraded")
				continue
			}
			images = append(images, path)
		}
	}

	if len(images) == 0 {
		log.Info().Str("scene", scene.Text).Msg("no stock images, synthesizing placeholders")
		images = p.placeholders(ctx, keywords, style, workdir)
	}

	if len(images) > p.cfg.Stock.MaxPerScene {
		images = images[:p.cfg.Stock.MaxPerScene]
	}
	return images
}

func (p *Provider) download(ctx context.Context, imageURL, keyword, workdir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; shortsmith/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d downloading image", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	// Tiny payloads are error pages, not images.
	if len(data) < 100 {
		return "", fmt.Errorf("response too small (%d bytes)", len(data))
	}

	outFile := filepath.Join(workdir, fmt.Sprintf("stock_%s_%s.jpg", sanitize(keyword), uuid.NewString()[:8]))
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return "", err
	}
	p.registry.Register(outFile)
	return outFile, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToLower(s))
}
