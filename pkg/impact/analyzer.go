package impact

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/linkscope/pkg/logging"
	"github.com/dd0wney/linkscope/pkg/metrics"
	"github.com/dd0wney/linkscope/pkg/parallel"
	"github.com/dd0wney/linkscope/pkg/routing"
	"github.com/dd0wney/linkscope/pkg/topology"
)

// ProgressFunc receives incremental completion counts. It may be invoked
// concurrently from multiple workers and must be safe for that.
type ProgressFunc func(done, total int)

// Options configures an Analyzer.
type Options struct {
	// Workers sets the fan-out width; non-positive means one per CPU.
	Workers int
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Analyzer quantifies the blast radius of a proposed topology change by
// solving every ordered visible pair under two immutable snapshots and
// diffing the results.
type Analyzer struct {
	workers int
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewAnalyzer creates an analyzer with the given options.
func NewAnalyzer(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Analyzer{
		workers: opts.Workers,
		logger:  logger.With(logging.Component("impact")),
		metrics: opts.Metrics,
	}
}

type pairKey struct {
	src, dest topology.NodeID
}

// Analyze runs the solver over every ordered pair of visible nodes, once per
// snapshot, and classifies each flow's outcome. Both snapshots are built from
// the same node universe and visibility filter, so the blast-radius report
// sees exactly the graph ordinary pathfinding sees.
//
// The pair loop is chunked across a worker pool; each pair's solve is
// independent and side-effect-free, so no locking is needed beyond the
// progress counter. Cancellation is honored between pairs. Records come back
// sorted by (src, dest).
func (a *Analyzer) Analyze(
	ctx context.Context,
	nodes []topology.Node,
	baselineEdges, modifiedEdges []topology.DirectedEdge,
	visible topology.VisibilityFilter,
	onProgress ProgressFunc,
) (*Report, error) {
	start := time.Now()

	baseline, err := topology.NewSnapshot(nodes, baselineEdges, visible)
	if err != nil {
		return nil, fmt.Errorf("baseline snapshot: %w", err)
	}
	modified, err := topology.NewSnapshot(nodes, modifiedEdges, visible)
	if err != nil {
		return nil, fmt.Errorf("modified snapshot: %w", err)
	}

	visibleNodes := baseline.VisibleNodes()
	pairs := make([]pairKey, 0, len(visibleNodes)*(len(visibleNodes)-1))
	for _, src := range visibleNodes {
		for _, dest := range visibleNodes {
			if src != dest {
				pairs = append(pairs, pairKey{src: src, dest: dest})
			}
		}
	}
	total := len(pairs)

	a.logger.Info("impact analysis started",
		logging.Count(len(visibleNodes)),
		logging.Pairs(total))

	records := make([]Record, total)
	var done int64

	pool := parallel.NewPool(a.workers)
	defer pool.Close()

	pool.ForEach(total, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if ctx.Err() != nil {
				return
			}
			p := pairs[i]
			base := routing.FindPath(baseline, p.src, p.dest)
			mod := routing.FindPath(modified, p.src, p.dest)
			records[i] = newRecord(p.src, p.dest, base, mod)

			n := atomic.AddInt64(&done, 1)
			if onProgress != nil {
				onProgress(int(n), total)
			}
		}
	})

	if err := ctx.Err(); err != nil {
		if a.metrics != nil {
			a.metrics.RecordImpactAnalysis("cancelled", time.Since(start), int(atomic.LoadInt64(&done)))
		}
		a.logger.Warn("impact analysis cancelled",
			logging.Pairs(int(atomic.LoadInt64(&done))),
			logging.Error(err))
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Src != records[j].Src {
			return records[i].Src < records[j].Src
		}
		return records[i].Dest < records[j].Dest
	})

	if a.metrics != nil {
		a.metrics.RecordImpactAnalysis("completed", time.Since(start), total)
		for _, rec := range records {
			a.metrics.RecordClassification(string(rec.Classification))
		}
	}

	report := &Report{
		RunID:      uuid.NewString(),
		Records:    records,
		TotalPairs: total,
		Duration:   time.Since(start),
	}
	a.logger.Info("impact analysis completed",
		logging.String("run_id", report.RunID),
		logging.Pairs(total),
		logging.Latency(report.Duration))
	return report, nil
}
