package history

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tldr-it-stepankutaj/reconx/internal/report"
)

// Scan is one persisted run.
type Scan struct {
	gorm.Model
	Target    string `gorm:"target"`
	Modules   string `gorm:"modules"`
	Succeeded int    `gorm:"succeeded"`
	Failed    int    `gorm:"failed"`
	Duration  string `gorm:"duration"`
	Report    string `gorm:"report"` // full report as JSON
}

// Store keeps past scan reports in a SQLite database.
type Store struct {
	conn *gorm.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	s := &Store{conn: conn}
	if err := s.conn.AutoMigrate(&Scan{}); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveScan records a finished run.
func (s *Store) SaveScan(r *report.Report, elapsed time.Duration) error {
	blob, err := json.Marshal(r)
	if err != nil {
		return err
	}

	var ok, failed int
	for _, o := range r.Results {
		if o.OK() {
			ok++
		} else {
			failed++
		}
	}

	scan := Scan{
		Target:    r.Target,
		Modules:   strings.Join(r.Modules, ","),
		Succeeded: ok,
		Failed:    failed,
		Duration:  elapsed.Round(time.Millisecond).String(),
		Report:    string(blob),
	}
	return s.conn.Create(&scan).Error
}

// Recent returns the newest scans, most recent first.
func (s *Store) Recent(limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = 10
	}
	var scans []Scan
	err := s.conn.Order("created_at desc").Limit(limit).Find(&scans).Error
	return scans, err
}
