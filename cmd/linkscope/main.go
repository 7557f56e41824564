package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/linkscope/pkg/api"
	"github.com/dd0wney/linkscope/pkg/config"
	"github.com/dd0wney/linkscope/pkg/impact"
	"github.com/dd0wney/linkscope/pkg/logging"
	"github.com/dd0wney/linkscope/pkg/routing"
	"github.com/dd0wney/linkscope/pkg/topology"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkscope",
		Short:         "ECMP-aware shortest-path engine and change-impact analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newPathCmd(), newImpactCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))
			logging.SetDefaultLogger(logger)

			return api.NewServer(cfg, logger).Start()
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	return cmd
}

func newPathCmd() *cobra.Command {
	var (
		topoPath  string
		src, dest string
		hidden    []string
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Compute the shortest path(s) for one src/dest pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := topology.LoadFile(topoPath)
			if err != nil {
				return err
			}
			snap, err := topology.NewSnapshot(topo.Nodes, topo.Edges, hiddenRegionFilter(topo.Nodes, hidden))
			if err != nil {
				return err
			}

			result := routing.FindPath(snap, topology.NodeID(src), topology.NodeID(dest))
			if result == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no path from %s to %s\n", src, dest)
				return nil
			}
			return printJSON(cmd, map[string]any{
				"cost":           result.Cost,
				"canonical_path": result.CanonicalPath,
				"edges":          result.SortedEdgeIDs(),
				"ecmp":           result.ECMP,
				"wavefront":      result.Wavefront,
			})
		},
	}
	cmd.Flags().StringVar(&topoPath, "topology", "", "path to YAML topology file")
	cmd.Flags().StringVar(&src, "src", "", "source router")
	cmd.Flags().StringVar(&dest, "dest", "", "destination router")
	cmd.Flags().StringSliceVar(&hidden, "hide", nil, "regions to exclude")
	cobra.CheckErr(cmd.MarkFlagRequired("topology"))
	cobra.CheckErr(cmd.MarkFlagRequired("src"))
	cobra.CheckErr(cmd.MarkFlagRequired("dest"))
	return cmd
}

func newImpactCmd() *cobra.Command {
	var (
		topoPath    string
		linkID      string
		forwardCost float64
		reverseCost float64
		newLink     string
		hidden      []string
		workers     int
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Analyze the blast radius of a proposed link change",
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := topology.LoadFile(topoPath)
			if err != nil {
				return err
			}

			modified, err := buildModifiedEdges(cmd, topo.Edges, linkID, forwardCost, reverseCost, newLink)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			analyzer := impact.NewAnalyzer(impact.Options{
				Workers: workers,
				Logger:  logging.NewJSONLogger(os.Stderr, logging.WarnLevel),
			})
			report, err := analyzer.Analyze(ctx, topo.Nodes, topo.Edges, modified,
				hiddenRegionFilter(topo.Nodes, hidden),
				func(done, total int) {
					if done%1000 == 0 || done == total {
						fmt.Fprintf(cmd.ErrOrStderr(), "\rprogress: %d/%d pairs", done, total)
					}
				})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr())

			if jsonOut {
				return printJSON(cmd, report)
			}
			printSummary(cmd, report, topo.Nodes)
			return nil
		},
	}
	cmd.Flags().StringVar(&topoPath, "topology", "", "path to YAML topology file")
	cmd.Flags().StringVar(&linkID, "link", "", "logical link to re-cost")
	cmd.Flags().Float64Var(&forwardCost, "forward-cost", -1, "new forward cost for --link")
	cmd.Flags().Float64Var(&reverseCost, "reverse-cost", -1, "new reverse cost for --link")
	cmd.Flags().StringVar(&newLink, "new-link", "", "candidate link as A:B:cost[:reverseCost]")
	cmd.Flags().StringSliceVar(&hidden, "hide", nil, "regions to exclude")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the full report as JSON")
	cobra.CheckErr(cmd.MarkFlagRequired("topology"))
	return cmd
}

// buildModifiedEdges derives the modified edge list from the change flags.
// The baseline slice is never touched.
func buildModifiedEdges(cmd *cobra.Command, baseline []topology.DirectedEdge, linkID string, forwardCost, reverseCost float64, newLink string) ([]topology.DirectedEdge, error) {
	switch {
	case linkID != "":
		ov := topology.CostOverride{LinkID: linkID}
		if forwardCost >= 0 {
			ov.ForwardCost = &forwardCost
		}
		if reverseCost >= 0 {
			ov.ReverseCost = &reverseCost
		}
		if ov.ForwardCost == nil && ov.ReverseCost == nil {
			return nil, fmt.Errorf("--link requires --forward-cost and/or --reverse-cost")
		}
		return topology.ApplyOverride(baseline, ov)

	case newLink != "":
		link, err := parseLinkSpec(newLink)
		if err != nil {
			return nil, err
		}
		return topology.WithLink(baseline, link), nil

	default:
		return nil, fmt.Errorf("either --link or --new-link is required")
	}
}

// parseLinkSpec parses A:B:cost[:reverseCost].
func parseLinkSpec(spec string) (topology.Link, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return topology.Link{}, fmt.Errorf("invalid link spec %q, want A:B:cost[:reverseCost]", spec)
	}
	cost, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || cost < 0 {
		return topology.Link{}, fmt.Errorf("invalid link cost %q", parts[2])
	}
	reverse := cost
	if len(parts) == 4 {
		reverse, err = strconv.ParseFloat(parts[3], 64)
		if err != nil || reverse < 0 {
			return topology.Link{}, fmt.Errorf("invalid reverse cost %q", parts[3])
		}
	}
	return topology.Link{
		ID:     parts[0] + "-" + parts[1],
		A:      topology.NodeID(parts[0]),
		B:      topology.NodeID(parts[1]),
		CostAB: cost,
		CostBA: reverse,
	}, nil
}

func hiddenRegionFilter(nodes []topology.Node, hidden []string) topology.VisibilityFilter {
	if len(hidden) == 0 {
		return nil
	}
	hiddenSet := make(map[string]struct{}, len(hidden))
	for _, region := range hidden {
		hiddenSet[region] = struct{}{}
	}
	regions := make(map[topology.NodeID]string, len(nodes))
	for _, n := range nodes {
		regions[n.ID] = n.Region
	}
	return func(id topology.NodeID) bool {
		_, isHidden := hiddenSet[regions[id]]
		return !isHidden
	}
}

func printSummary(cmd *cobra.Command, report *impact.Report, nodes []topology.Node) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d pairs analyzed in %s\n\n", report.RunID, report.TotalPairs, report.Duration)

	totals := make(map[impact.Classification]int)
	for _, rec := range report.Records {
		totals[rec.Classification]++
	}
	for _, c := range []impact.Classification{
		impact.Unchanged, impact.CostChanged, impact.Rerouted,
		impact.MigratedToECMP, impact.LostConnectivity, impact.GainedConnectivity,
	} {
		if totals[c] > 0 {
			fmt.Fprintf(out, "%-20s %d\n", c, totals[c])
		}
	}

	summaries := impact.Aggregate(report.Records, impact.RegionKey(nodes))
	if len(summaries) > 1 {
		fmt.Fprintf(out, "\n%-12s %-12s %8s %16s\n", "SRC REGION", "DEST REGION", "FLOWS", "WORST DELTA")
		for _, s := range summaries {
			fmt.Fprintf(out, "%-12s %-12s %8d %16.1f\n", s.Key.Src, s.Key.Dest, s.Flows, s.WorstCostDelta)
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
