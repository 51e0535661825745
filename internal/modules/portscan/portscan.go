package portscan

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
)

// concurrency bounds simultaneous connect attempts.
const concurrency = 100

// commonPorts is ordered by how frequently the service appears in the wild,
// so a top-N prefix probes the most likely candidates first.
var commonPorts = []int{
	80, 443, 22, 21, 25, 3389, 110, 445, 139, 143,
	53, 135, 3306, 8080, 1723, 111, 995, 993, 5900, 1025,
	587, 8888, 199, 1720, 465, 548, 113, 81, 6001, 10000,
	514, 5060, 179, 1026, 2000, 8443, 8000, 32768, 554, 26,
	1433, 49152, 2001, 515, 8008, 49154, 1027, 5666, 646, 5000,
	5631, 631, 49153, 8081, 2049, 88, 79, 5800, 106, 2121,
	1110, 49155, 6000, 513, 990, 5357, 427, 49156, 543, 544,
	5101, 144, 7, 389, 8009, 3128, 444, 9999, 5009, 7070,
	5190, 3000, 5432, 1900, 3986, 13, 1029, 9, 5051, 6646,
	49157, 1028, 873, 1755, 2717, 4899, 9100, 119, 37, 1000,
}

// Module implements the TCP connect port scan module.
type Module struct{}

func New() Module { return Module{} }

func (Module) Name() string { return "portscan" }
func (Module) Description() string {
	return "TCP connect scan over the most common ports"
}

// Run probes the first Options.TopPorts entries of the common-port table with
// concurrent connect attempts and reports which ports accepted.
func (Module) Run(ctx context.Context, target string, opts modules.Options) (any, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ports := topPorts(opts.TopPorts)

	open, err := probe(ctx, target, ports, timeout)
	if err != nil {
		return nil, err
	}
	sort.Ints(open)

	result := map[string]any{
		"scanned": len(ports),
		"open":    open,
	}
	if len(open) == 0 {
		result["note"] = "no open ports found in probed set"
	}
	return result, nil
}

// topPorts returns the first n common ports, defaulting to 50 and clamping to
// the table size.
func topPorts(n int) []int {
	if n <= 0 {
		n = 50
	}
	if n > len(commonPorts) {
		n = len(commonPorts)
	}
	return commonPorts[:n]
}

// probe performs concurrent TCP connect attempts to the given ports.
func probe(ctx context.Context, host string, ports []int, dialTimeout time.Duration) ([]int, error) {
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	open := make([]int, 0, 8)

	dialer := &net.Dialer{Timeout: dialTimeout}

	for _, p := range ports {
		p := p
		select {
		case <-ctx.Done():
			return open, ctx.Err()
		default:
		}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem; wg.Done() }()
			addr := fmt.Sprintf("%s:%d", host, p)
			cctx, cancel := context.WithTimeout(ctx, dialTimeout)
			conn, err := dialer.DialContext(cctx, "tcp", addr)
			cancel()
			if err == nil {
				_ = conn.Close()
				mu.Lock()
				open = append(open, p)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return open, nil
}
