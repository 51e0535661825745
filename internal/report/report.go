package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Outcome is the result of attempting to load and run one module. Exactly one
// variant is populated: a success carries elapsed time and the module's data,
// a failure carries an error message.
type Outcome struct {
	Elapsed time.Duration
	Data    any
	Err     string
}

// Success builds a successful outcome.
func Success(elapsed time.Duration, data any) Outcome {
	return Outcome{Elapsed: elapsed, Data: data}
}

// Failure builds a failed outcome.
func Failure(msg string) Outcome {
	return Outcome{Err: msg}
}

// OK reports whether the outcome is the success variant.
func (o Outcome) OK() bool { return o.Err == "" }

// ElapsedSeconds returns the run duration rounded to two decimals, the
// precision used for display and persistence.
func (o Outcome) ElapsedSeconds() float64 {
	return math.Round(o.Elapsed.Seconds()*100) / 100
}

type successJSON struct {
	Elapsed float64 `json:"elapsed"`
	Data    any     `json:"data"`
}

type failureJSON struct {
	Error string `json:"error"`
}

// MarshalJSON encodes the populated variant only.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if !o.OK() {
		return json.Marshal(failureJSON{Error: o.Err})
	}
	return json.Marshal(successJSON{Elapsed: o.ElapsedSeconds(), Data: o.Data})
}

// UnmarshalJSON restores an outcome written by MarshalJSON.
func (o *Outcome) UnmarshalJSON(b []byte) error {
	var raw struct {
		Elapsed *float64        `json:"elapsed"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Error != "" {
		*o = Failure(raw.Error)
		return nil
	}
	var data any
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			return err
		}
	}
	var elapsed time.Duration
	if raw.Elapsed != nil {
		elapsed = time.Duration(*raw.Elapsed * float64(time.Second))
	}
	*o = Success(elapsed, data)
	return nil
}

// Report is the complete, ordered collection of outcomes for one run. Modules
// preserves the requested order (trimmed, blanks dropped, duplicates kept);
// Results holds exactly one outcome per distinct name, last write wins.
type Report struct {
	Target  string             `json:"target"`
	Modules []string           `json:"modules"`
	Results map[string]Outcome `json:"results"`
}

// New creates an empty report for the given target and raw requested names.
func New(target string, requested []string) *Report {
	r := &Report{
		Target:  target,
		Modules: make([]string, 0, len(requested)),
		Results: make(map[string]Outcome),
	}
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r.Modules = append(r.Modules, name)
	}
	return r
}

// Add records the outcome for a module name.
func (r *Report) Add(name string, o Outcome) {
	r.Results[name] = o
}

// Outcome returns the recorded outcome for a name, or a "no result" failure
// when the name never produced one.
func (r *Report) Outcome(name string) Outcome {
	if o, ok := r.Results[name]; ok {
		return o
	}
	return Failure("no result")
}

// WriteJSON persists the report with 2-space indentation, overwriting any
// existing file at path.
func (r *Report) WriteJSON(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return w.Flush()
}

// ReadJSON loads a report previously written by WriteJSON.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
