package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrGeocoderUnavailable = errors.New("geocoding service unavailable")

const (
	DEFAULT_BASE_URL   = "https://nominatim.openstreetmap.org"
	DEFAULT_USER_AGENT = "route_planner"
)

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type cachedResult struct {
	coord geo.Coordinate
	found bool
}

type Config struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond float64
	CacheSize     int
}

// Nominatim geocodes free-form addresses with the nominatim /search endpoint. Requests are throttled
// client side and answers, including misses, are cached by normalized address.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *lru.Cache[string, cachedResult]
	logger     *zap.Logger
}

func NewNominatim(cfg Config, logger *zap.Logger) (*Nominatim, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DEFAULT_BASE_URL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DEFAULT_USER_AGENT
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	cache, err := lru.New[string, cachedResult](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		cache:   cache,
		logger:  logger,
	}, nil
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Geocode returns the coordinate of the best match for address. found is false when nominatim knows no
// such place. Any transport or decoding failure is reported as ErrGeocoderUnavailable.
func (n *Nominatim) Geocode(ctx context.Context, address string) (geo.Coordinate, bool, error) {
	key := normalizeAddress(address)
	if key == "" {
		return geo.Coordinate{}, false, nil
	}
	if res, ok := n.cache.Get(key); ok {
		return res.coord, res.found, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("%w: %w", ErrGeocoderUnavailable, err)
	}

	places, err := n.search(ctx, address)
	if err != nil {
		n.logger.Warn("nominatim search failed", zap.String("address", address), zap.Error(err))
		return geo.Coordinate{}, false, fmt.Errorf("%w: %w", ErrGeocoderUnavailable, err)
	}

	res := cachedResult{}
	if len(places) > 0 {
		lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
		lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
		if err := errors.Join(errLat, errLon); err != nil {
			return geo.Coordinate{}, false, fmt.Errorf("%w: invalid coordinate: %w", ErrGeocoderUnavailable, err)
		}
		res = cachedResult{coord: geo.NewCoordinate(lat, lon), found: true}
	}
	n.cache.Add(key, res)
	return res.coord, res.found, nil
}

func (n *Nominatim) search(ctx context.Context, address string) ([]nominatimPlace, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	return places, nil
}
