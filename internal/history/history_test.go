package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tldr-it-stepankutaj/reconx/internal/report"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scans.db"))
	require.NoError(t, err)
	return s
}

func TestStore_SaveAndRecent(t *testing.T) {
	s := openStore(t)

	r := report.New("example.com", []string{"dns", "portscan"})
	r.Add("dns", report.Success(120*time.Millisecond, map[string]any{"a": []string{"1.2.3.4"}}))
	r.Add("portscan", report.Failure("dial tcp: i/o timeout"))

	require.NoError(t, s.SaveScan(r, 1300*time.Millisecond))

	scans, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, scans, 1)

	got := scans[0]
	assert.Equal(t, "example.com", got.Target)
	assert.Equal(t, "dns,portscan", got.Modules)
	assert.Equal(t, 1, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, "1.3s", got.Duration)
	assert.Contains(t, got.Report, `"target":"example.com"`)
}

func TestStore_RecentOrderAndLimit(t *testing.T) {
	s := openStore(t)

	for _, target := range []string{"one.example", "two.example", "three.example"} {
		r := report.New(target, []string{"dns"})
		r.Add("dns", report.Success(time.Millisecond, "ok"))
		require.NoError(t, s.SaveScan(r, time.Millisecond))
		time.Sleep(5 * time.Millisecond)
	}

	scans, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "three.example", scans[0].Target)
	assert.Equal(t, "two.example", scans[1].Target)
}
