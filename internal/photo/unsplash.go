package photo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// fallbackURL is the stock image used whenever the photo provider is
// unavailable. A random suffix is appended so chat clients do not serve
// a cached copy.
const fallbackURL = "https://images.unsplash.com/photo-1464822759023-fed622ff2c3b?w=600&q=75"

// Season maps a month to the photo search season.
func Season(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

// themes returns the fixed set of search phrases for a season.
func themes(season string) []string {
	return []string{
		"Siberia " + season + " nature",
		"Siberian city landscape " + season,
		"Lake Baikal " + season,
		"Russian winter landscape",
		"Siberian taiga forest",
	}
}

// Client fetches a random themed background image from Unsplash.
type Client struct {
	accessKey string
	baseURL   string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client, accessKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "unsplash",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		accessKey: accessKey,
		baseURL:   "https://api.unsplash.com/photos/random",
		client:    client,
		circuit:   cb,
	}
}

// BackgroundURL returns a background image URL for the current season.
// It never fails: any provider error falls back to the stock image.
// Returned URLs request a reduced 600px/q75 variant to bound the
// payload the chat platform has to download.
func (c *Client) BackgroundURL(ctx context.Context) string {
	season := Season(time.Now().In(time.UTC).Month())
	queries := themes(season)
	query := queries[rand.Intn(len(queries))]

	imageURL, err := c.fetchRandom(ctx, query)
	if err != nil {
		log.Printf("photo: falling back to stock image: %v", err)
		return fmt.Sprintf("%s&refresh=%d", fallbackURL, rand.Intn(999)+1)
	}

	return fmt.Sprintf("%s&w=600&q=75&t=%d", imageURL, rand.Uint32())
}

func (c *Client) fetchRandom(ctx context.Context, query string) (string, error) {
	if c.accessKey == "" {
		return "", fmt.Errorf("unsplash access key is not configured")
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("orientation", "landscape")
	values.Set("client_id", c.accessKey)
	// Unsplash serves a different random photo per sig value.
	values.Set("sig", strconv.FormatUint(uint64(rand.Uint32()), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return "", err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		var payload struct {
			Urls struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		if payload.Urls.Regular == "" {
			return nil, fmt.Errorf("no image url in response")
		}
		return payload.Urls.Regular, nil
	})
	if err != nil {
		return "", err
	}

	imageURL, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result type from circuit breaker")
	}
	return imageURL, nil
}
