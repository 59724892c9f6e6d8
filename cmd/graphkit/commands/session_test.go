package commands

import (
	"context"
	"testing"

	"github.com/DrSkyle/graphkit/pkg/backup"
	"github.com/DrSkyle/graphkit/pkg/config"
	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoredGraphKeepsSavedConfig(t *testing.T) {
	defer viper.Reset()
	dir := t.TempDir()
	viper.Set("backup_url", dir)
	viper.Set("directed", true)
	viper.Set("delete_policy", "cascade")

	ctx := context.Background()
	sess, err := newSession(ctx)
	require.NoError(t, err)
	defer sess.close(ctx)

	saved := config.DefaultGraphConfig()
	saved.Directed = false
	saved.DeletePolicy = config.DeleteForbid
	saved.BackupURL = dir
	g := graph.New(graph.WithConfig(saved), graph.WithID("g1"))
	g, _, err = g.AddNodes(graph.NodeSpec{}, graph.NodeSpec{})
	require.NoError(t, err)
	g, _, err = g.AddEdge(graph.EdgeSpec{From: 1, To: 2})
	require.NoError(t, err)
	_, err = backup.NewSaver(sess.store, sess.logger).Save(ctx, g)
	require.NoError(t, err)

	restored, err := backup.Latest(ctx, sess.store, "g1", sess.restoreOptions()...)
	require.NoError(t, err)
	assert.False(t, restored.Directed())
	assert.Equal(t, config.DeleteForbid, restored.Config().DeletePolicy)

	_, err = restored.RemoveNode(1)
	assert.ErrorIs(t, err, graph.ErrNodeReferenced, "the saved delete policy still applies")

	fresh := graph.New(sess.newGraphOptions()...)
	assert.True(t, fresh.Directed())
	assert.Equal(t, config.DeleteCascade, fresh.Config().DeletePolicy)
}
