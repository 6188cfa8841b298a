package ephem

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second

	// MaxCacheEntries bounds the longitude cache.
	MaxCacheEntries = 4096
)

// HorizonsProvider queries JPL Horizons for geocentric ecliptic longitudes.
type HorizonsProvider struct {
	client  *http.Client
	baseURL string

	mu    sync.RWMutex
	cache map[cacheKey]float64
}

// cacheKey identifies one longitude query. Ephemeris values never change for
// a given instant, so entries do not expire.
type cacheKey struct {
	point Point
	jd    float64
}

// HorizonsOption configures a HorizonsProvider.
type HorizonsOption func(*HorizonsProvider)

// WithBaseURL sets a custom API endpoint.
func WithBaseURL(u string) HorizonsOption {
	return func(p *HorizonsProvider) {
		p.baseURL = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) HorizonsOption {
	return func(p *HorizonsProvider) {
		p.client.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HorizonsOption {
	return func(p *HorizonsProvider) {
		p.client = client
	}
}

// NewHorizonsProvider creates a new Horizons API client.
func NewHorizonsProvider(opts ...HorizonsOption) *HorizonsProvider {
	p := &HorizonsProvider{
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		baseURL: HorizonsAPIURL,
		cache:   make(map[cacheKey]float64),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements LongitudeSource.
func (p *HorizonsProvider) Name() string {
	return "Horizons"
}

// Available implements LongitudeSource. Horizons has no lunar node target.
func (p *HorizonsProvider) Available(pt Point) bool {
	return pt.IsBody() && pt.Info().HorizCmd != ""
}

// Longitude implements LongitudeSource.
// Returns a cached value if available, otherwise queries Horizons.
func (p *HorizonsProvider) Longitude(jd float64, pt Point) (float64, error) {
	if !p.Available(pt) {
		return 0, fmt.Errorf("horizons does not serve %s", pt)
	}

	key := cacheKey{point: pt, jd: jd}
	p.mu.RLock()
	lon, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return lon, nil
	}

	lon, err := p.queryHorizons(pt, jd)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	if len(p.cache) >= MaxCacheEntries {
		p.cache = make(map[cacheKey]float64)
	}
	p.cache[key] = lon
	p.mu.Unlock()

	return lon, nil
}

// InvalidateCache clears all cached longitudes.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.cache = make(map[cacheKey]float64)
	p.mu.Unlock()
}

// queryHorizons makes a request to the Horizons API.
func (p *HorizonsProvider) queryHorizons(pt Point, jd float64) (float64, error) {
	reqURL := p.baseURL + "?" + horizonsParams(pt.Info().HorizCmd, jd).Encode()

	resp, err := p.client.Get(reqURL)
	if err != nil {
		return 0, fmt.Errorf("horizons request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	return parseHorizonsResponse(body)
}

// horizonsParams builds an OBSERVER query for one instant. Values must be
// quoted with single quotes. QUANTITIES='31' is the observer-centred
// ecliptic longitude and latitude of date.
func horizonsParams(command string, jd float64) url.Values {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", command))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	params.Set("CENTER", "'500@399'")
	params.Set("TLIST", fmt.Sprintf("'%.6f'", jd))
	params.Set("TLIST_TYPE", "JD")
	params.Set("TIME_TYPE", "TT")
	params.Set("CAL_FORMAT", "JD")
	params.Set("ANG_FORMAT", "DEG")
	params.Set("EXTRA_PREC", "YES")
	params.Set("QUANTITIES", "'31'")
	return params
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseHorizonsResponse parses the Horizons JSON response.
func parseHorizonsResponse(body []byte) (float64, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("horizons error: %s", strings.TrimSpace(resp.Error))
	}

	// The actual ephemeris data is in resp.Result as a text blob
	return parseEphemerisTable(resp.Result)
}

// parseEphemerisTable extracts the first longitude between the $$SOE and
// $$EOE markers.
func parseEphemerisTable(result string) (float64, error) {
	soeIdx := strings.Index(result, "$$SOE")
	eoeIdx := strings.Index(result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return 0, fmt.Errorf("could not find ephemeris data markers")
	}

	dataSection := result[soeIdx+5 : eoeIdx]
	for _, line := range strings.Split(dataSection, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lon, err := parseEphemerisLine(line)
		if err != nil {
			continue // Skip unparseable lines
		}
		return lon, nil
	}

	return 0, fmt.Errorf("no ephemeris rows returned")
}

// parseEphemerisLine parses a single ephemeris data line.
// Format for QUANTITIES='31' with CAL_FORMAT='JD':
// 2451545.000739000 *m   223.3237936  5.1707236
// Fields: Julian day, optional flags, longitude, latitude
func parseEphemerisLine(line string) (float64, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, fmt.Errorf("bad Julian day %q", fields[0])
	}

	// Skip any flag fields (like *, *m, Cm, Nm, Am, etc.)
	var values []float64
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
		if len(values) == 2 {
			break
		}
	}
	if len(values) < 2 {
		return 0, fmt.Errorf("could not find longitude/latitude values")
	}

	lon := values[0]
	if lon < 0 || lon >= 360 {
		return 0, fmt.Errorf("longitude %v out of range", lon)
	}
	return lon, nil
}
