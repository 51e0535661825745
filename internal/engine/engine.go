package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
	"github.com/tldr-it-stepankutaj/reconx/internal/report"
)

// outerBudgetFactor sizes the hard deadline placed around each module run.
// Modules are expected to honor Options.Timeout per network call; the outer
// deadline only stops a module that ignores it from hanging the whole run.
const outerBudgetFactor = 5

// Engine executes requested modules sequentially against one target and
// aggregates the outcomes into a report. A single module's malfunction only
// degrades its own entry; all other modules still run to completion.
type Engine struct {
	registry *modules.Registry
}

// New creates an engine backed by the given registry.
func New(reg *modules.Registry) *Engine {
	return &Engine{registry: reg}
}

// Run processes each raw requested name in order: blank names are skipped,
// load failures and contract violations become failure entries, and every
// successful run is timed around the module call only. Duplicated names run
// again and overwrite their previous entry.
func (e *Engine) Run(ctx context.Context, target string, requested []string, opts modules.Options) *report.Report {
	rep := report.New(target, requested)

	for _, raw := range requested {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		l := log.WithFields(log.Fields{
			"module": name,
			"target": target,
		})

		m, err := e.registry.Load(name)
		if err != nil {
			l.WithError(err).Error("Module load failed")
			rep.Add(name, report.Failure(err.Error()))
			continue
		}

		runner, ok := m.(modules.Runner)
		if !ok {
			l.Error("Module does not implement the run contract")
			rep.Add(name, report.Failure("module missing run(target, options) function"))
			continue
		}

		l.Debug("Module starting")
		outcome := e.invoke(ctx, runner, target, opts)
		if outcome.OK() {
			l.WithField("elapsed", outcome.Elapsed.Round(time.Millisecond)).Info("Module finished")
		} else {
			l.WithField("error", outcome.Err).Error("Module failed")
		}
		rep.Add(name, outcome)
	}

	return rep
}

// invoke runs one module under an outer deadline and converts any failure,
// including a panic inside the module, into a failure outcome. The elapsed
// time covers the run call only, never loading.
func (e *Engine) invoke(ctx context.Context, runner modules.Runner, target string, opts modules.Options) (out report.Outcome) {
	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout*outerBudgetFactor)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			out = report.Failure(fmt.Sprintf("module panic: %v", r))
		}
	}()

	start := time.Now()
	data, err := runner.Run(runCtx, target, opts)
	elapsed := time.Since(start)

	if err != nil {
		return report.Failure(err.Error())
	}
	return report.Success(elapsed, data)
}
