package headers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
)

// maxBody limits how much of the response body is read for title extraction.
const maxBody = 256 * 1024

// securityHeaders are the response headers checked for presence.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Referrer-Policy",
	"Permissions-Policy",
}

// Module implements the HTTP header fetch module.
type Module struct{}

func New() Module { return Module{} }

func (Module) Name() string { return "headers" }
func (Module) Description() string {
	return "HTTP header fetch: status, server, security headers, page title"
}

// Run fetches the target over HTTP (or as given when the target already
// carries a scheme) and reports response headers, the page title and any
// missing security headers.
func (Module) Run(ctx context.Context, target string, opts modules.Options) (any, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	url := target
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
			DisableKeepAlives: true,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "reconx")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	hdrs := make(map[string]any, len(resp.Header))
	for k := range resp.Header {
		hdrs[k] = resp.Header.Get(k)
	}

	var missing []string
	for _, h := range securityHeaders {
		if resp.Header.Get(h) == "" {
			missing = append(missing, h)
		}
	}

	result := map[string]any{
		"url":     resp.Request.URL.String(),
		"status":  resp.Status,
		"headers": hdrs,
	}
	if server := resp.Header.Get("Server"); server != "" {
		result["server"] = server
	}
	if len(missing) > 0 {
		result["missing_security_headers"] = missing
	}
	if title := extractTitle(resp.Body); title != "" {
		result["title"] = title
	}
	return result, nil
}

// extractTitle parses the page title out of the response body. Parse errors
// just mean no title.
func extractTitle(body io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(body, maxBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
