package commands

import (
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/backup"
	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/spf13/cobra"
)

var restoreOpts struct {
	version int
	list    bool
	show    []string
	out     string
}

var restoreCmd = &cobra.Command{
	Use:   "restore <graph-id>",
	Short: "Restore a graph from its backups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer sess.close(ctx)
		store, err := sess.requireStore()
		if err != nil {
			return err
		}

		id := args[0]
		if restoreOpts.list {
			versions, err := backup.Versions(ctx, store, id)
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), backup.Key(id, v))
			}
			return nil
		}

		var g *graph.Graph
		if restoreOpts.version > 0 {
			g, err = backup.Load(ctx, store, backup.Key(id, restoreOpts.version), sess.restoreOptions()...)
		} else {
			g, err = backup.Latest(ctx, store, id, sess.restoreOptions()...)
		}
		if err != nil {
			return err
		}
		printGraph(cmd, g, restoreOpts.show)
		if restoreOpts.out != "" {
			return writeSnapshot(restoreOpts.out, g)
		}
		return nil
	},
}

func init() {
	restoreCmd.Flags().IntVar(&restoreOpts.version, "at", 0, "Log version to restore (default: latest)")
	restoreCmd.Flags().BoolVar(&restoreOpts.list, "list", false, "List available versions")
	restoreCmd.Flags().StringSliceVar(&restoreOpts.show, "show", []string{"nodes", "edges", "log"}, "Tables to print: nodes, edges, log")
	restoreCmd.Flags().StringVarP(&restoreOpts.out, "out", "o", "", "Write the restored snapshot to this JSON file")
}
