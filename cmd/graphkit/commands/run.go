package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DrSkyle/graphkit/pkg/backup"
	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/DrSkyle/graphkit/pkg/script"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runOpts struct {
	graphID string
	resume  bool
	show    []string
	out     string
}

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Run an operation script",
	Long: `Run executes a YAML operation script against a new graph, or against the
latest backup of --id when --resume is set, and prints the result.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := script.Load(args[0])
		if err != nil {
			return err
		}

		sess, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer sess.close(ctx)

		opts := sess.newGraphOptions()
		if runOpts.graphID != "" {
			opts = append(opts, graph.WithID(runOpts.graphID))
		}
		g := graph.New(opts...)
		if runOpts.resume {
			if runOpts.graphID == "" {
				return fmt.Errorf("--resume needs --id")
			}
			store, err := sess.requireStore()
			if err != nil {
				return err
			}
			if g, err = backup.Latest(ctx, store, runOpts.graphID, sess.restoreOptions()...); err != nil {
				return err
			}
		}

		runner, err := script.NewRunner(script.WithLogger(sess.logger))
		if err != nil {
			return err
		}
		sess.logger.Info("Running script", "path", args[0], "graph", g.ID(), "steps", len(s.Steps))
		g, runErr := runner.Run(ctx, g, s)

		printGraph(cmd, g, runOpts.show)
		if runOpts.out != "" {
			if err := writeSnapshot(runOpts.out, g); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	runCmd.Flags().StringVar(&runOpts.graphID, "id", "", "Graph ID (default: random)")
	runCmd.Flags().BoolVar(&runOpts.resume, "resume", false, "Start from the latest backup of --id")
	runCmd.Flags().StringSliceVar(&runOpts.show, "show", []string{"nodes", "edges"}, "Tables to print: nodes, edges, log")
	runCmd.Flags().StringVarP(&runOpts.out, "out", "o", "", "Write the final snapshot to this JSON file")
}

func printGraph(cmd *cobra.Command, g *graph.Graph, tables []string) {
	r := newRenderer()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Summary(g))
	for _, t := range tables {
		fmt.Fprintln(out)
		switch t {
		case "nodes":
			fmt.Fprint(out, r.Nodes(g))
		case "edges":
			fmt.Fprint(out, r.Edges(g))
		case "log":
			fmt.Fprint(out, r.Log(g.Log()))
		default:
			fmt.Fprintf(out, "unknown table %q\n", t)
		}
	}
}

func writeSnapshot(path string, g *graph.Graph) error {
	data, err := json.MarshalIndent(g.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func colorEnabled() bool {
	return viper.GetBool("color")
}
