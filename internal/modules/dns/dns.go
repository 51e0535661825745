package dns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
)

// Module implements the DNS lookup module.
type Module struct{}

func New() Module { return Module{} }

func (Module) Name() string { return "dns" }
func (Module) Description() string {
	return "DNS lookup: A, AAAA, CNAME, MX, NS and TXT records"
}

// Run resolves the common record types for the target domain. Record types
// that fail to resolve are simply absent from the result; the run only fails
// when the target yields no records at all.
func (Module) Run(ctx context.Context, target string, opts modules.Options) (any, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	resolver := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: timeout}
			return d.DialContext(ctx, network, address)
		},
	}

	result := make(map[string]any)

	if ips, err := resolver.LookupIP(ctx, "ip4", target); err == nil && len(ips) > 0 {
		result["a"] = ipStrings(ips)
	}
	if ips, err := resolver.LookupIP(ctx, "ip6", target); err == nil && len(ips) > 0 {
		result["aaaa"] = ipStrings(ips)
	}
	if cname, err := resolver.LookupCNAME(ctx, target); err == nil {
		cname = strings.TrimSuffix(cname, ".")
		if cname != "" && cname != target {
			result["cname"] = cname
		}
	}
	if mxs, err := resolver.LookupMX(ctx, target); err == nil && len(mxs) > 0 {
		records := make([]string, 0, len(mxs))
		for _, mx := range mxs {
			records = append(records, fmt.Sprintf("%s (priority %d)", strings.TrimSuffix(mx.Host, "."), mx.Pref))
		}
		result["mx"] = records
	}
	if nss, err := resolver.LookupNS(ctx, target); err == nil && len(nss) > 0 {
		records := make([]string, 0, len(nss))
		for _, ns := range nss {
			records = append(records, strings.TrimSuffix(ns.Host, "."))
		}
		result["ns"] = records
	}
	if txts, err := resolver.LookupTXT(ctx, target); err == nil && len(txts) > 0 {
		result["txt"] = txts
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no DNS records found for %q", target)
	}
	return result, nil
}

func ipStrings(ips []net.IP) []string {
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		out = append(out, ip.String())
	}
	return out
}
