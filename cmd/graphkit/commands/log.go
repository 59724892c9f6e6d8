package commands

import (
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/DrSkyle/graphkit/pkg/history"
	"github.com/DrSkyle/graphkit/pkg/render"
	"github.com/spf13/cobra"
)

var logOpts struct {
	last    int
	graphID string
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the action ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.LedgerPath == "" {
			return fmt.Errorf("no ledger_path configured")
		}
		ledger, err := history.Open(ctx, cfg.LedgerPath)
		if err != nil {
			return err
		}
		recs, err := ledger.LoadWindow(ctx, 0)
		if err != nil {
			return err
		}

		byGraph := make(map[string][]graph.LogEntry)
		var order []string
		for _, r := range recs {
			if logOpts.graphID != "" && r.GraphID != logOpts.graphID {
				continue
			}
			if _, ok := byGraph[r.GraphID]; !ok {
				order = append(order, r.GraphID)
			}
			byGraph[r.GraphID] = append(byGraph[r.GraphID], r.LogEntry)
		}

		r := newRenderer()
		out := cmd.OutOrStdout()
		for i, id := range order {
			entries := byGraph[id]
			if logOpts.last > 0 && len(entries) > logOpts.last {
				entries = entries[len(entries)-logOpts.last:]
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "graph %s\n", id)
			fmt.Fprint(out, r.Log(entries))
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logOpts.last, "last", "n", 0, "Show only the last n entries per graph")
	logCmd.Flags().StringVar(&logOpts.graphID, "id", "", "Show only this graph")
}

func newRenderer() *render.Renderer {
	return render.New(colorEnabled())
}
