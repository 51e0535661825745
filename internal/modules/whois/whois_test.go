package whois

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReferral(t *testing.T) {
	resp := "% IANA WHOIS server\n" +
		"domain:       EXAMPLE.COM\n" +
		"refer:        whois.verisign-grs.com\n" +
		"status:       ACTIVE\n"
	assert.Equal(t, "whois.verisign-grs.com", parseReferral(resp))
}

func TestParseReferral_WhoisKey(t *testing.T) {
	resp := "organisation: Example Registry\nwhois: whois.nic.example\n"
	assert.Equal(t, "whois.nic.example", parseReferral(resp))
}

func TestParseReferral_NoReferral(t *testing.T) {
	assert.Equal(t, "", parseReferral("domain: EXAMPLE\nstatus: ACTIVE\n"))
}

func TestTruncate(t *testing.T) {
	short := "registrar: Example Inc."
	assert.Equal(t, short, truncate("  "+short+"\n"))

	long := strings.Repeat("x", maxResponse+100)
	got := truncate(long)
	assert.True(t, strings.HasSuffix(got, "[truncated]"))
	assert.Len(t, got, maxResponse+len("\n[truncated]"))
}

func TestQuery_AgainstLocalServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// Read the request line, then answer like a whois server would.
		line, _ := bufio.NewReader(conn).ReadString('\n')
		if strings.TrimSpace(line) == "example.com" {
			_, _ = conn.Write([]byte("domain: EXAMPLE.COM\nregistrar: Example Inc.\n"))
		}
	}()

	resp, err := query(context.Background(), ln.Addr().String(), "example.com", time.Second)
	require.NoError(t, err)
	assert.Contains(t, resp, "registrar: Example Inc.")
}
