package whois

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
)

// ianaServer answers referral queries for every TLD.
const ianaServer = "whois.iana.org:43"

// maxResponse caps how much registrar output ends up in the report.
const maxResponse = 4096

// Module implements the WHOIS lookup module.
type Module struct{}

func New() Module { return Module{} }

func (Module) Name() string { return "whois" }
func (Module) Description() string {
	return "WHOIS lookup via IANA referral to the authoritative registrar"
}

// Run asks IANA which registrar server is authoritative for the target and
// queries it. When no referral is found the IANA answer itself is returned.
func (Module) Run(ctx context.Context, target string, opts modules.Options) (any, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	ianaResp, err := query(ctx, ianaServer, target, timeout)
	if err != nil {
		return nil, fmt.Errorf("IANA whois query failed: %w", err)
	}

	server := parseReferral(ianaResp)
	if server == "" {
		return map[string]any{
			"server":   ianaServer,
			"response": truncate(ianaResp),
		}, nil
	}

	resp, err := query(ctx, net.JoinHostPort(server, "43"), target, timeout)
	if err != nil {
		return nil, fmt.Errorf("whois query against %s failed: %w", server, err)
	}

	return map[string]any{
		"server":   server,
		"referral": ianaServer,
		"response": truncate(resp),
	}, nil
}

// query sends one WHOIS request and reads the full answer.
func query(ctx context.Context, addr, domain string, timeout time.Duration) (string, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return "", err
	}

	data, err := io.ReadAll(conn)
	if err != nil && len(data) == 0 {
		return "", err
	}
	return string(data), nil
}

// parseReferral extracts the registrar server from an IANA "refer:" line.
func parseReferral(resp string) string {
	scanner := bufio.NewScanner(strings.NewReader(resp))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "refer:") || strings.HasPrefix(lower, "whois:") {
			return strings.TrimSpace(line[strings.Index(line, ":")+1:])
		}
	}
	return ""
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxResponse {
		return s[:maxResponse] + "\n[truncated]"
	}
	return s
}
