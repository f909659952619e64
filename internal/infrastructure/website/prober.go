package website

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// VerificationFile is the path, relative to the claimed site, where the user
// publishes their verification code.
const VerificationFile = "CloudIdVerificationCode.txt"

// maxCodeBytes caps how much of the published file is read.
const maxCodeBytes = 64 << 10

// ProbeURL returns the URL the verification code is expected at.
func ProbeURL(site string) string {
	return strings.TrimRight(site, "/") + "/" + VerificationFile
}

// Prober fetches published verification codes.
type Prober struct {
	http *http.Client
}

func NewProber(httpClient *http.Client) *Prober {
	return &Prober{http: httpClient}
}

// FetchCode GETs the verification file of site. It returns the HTTP status
// and, for 200 responses, the body. err is only set on transport failures.
func (p *Prober) FetchCode(ctx context.Context, site string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ProbeURL(site), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build probe request: %w", err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("probe %s: %w", site, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCodeBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read probe body: %w", err)
	}
	return resp.StatusCode, body, nil
}
