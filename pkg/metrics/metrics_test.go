package metrics

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New("uint64")
	m.ObserveLoad(3, 1, 0)
	m.SetTreeNodes(3)
	m.ObserveCluster(2)
	m.ObserveCluster(1)
	m.SetCovered(big.NewInt(11))

	assert.Equal(t, float64(3), testutil.ToFloat64(m.lines.WithLabelValues("loaded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lines.WithLabelValues("skipped")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.clusters))
	assert.Equal(t, float64(11), testutil.ToFloat64(m.coveredKeys))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.treeNodes))

	path := filepath.Join(t.TempDir(), "intervalcov.prom")
	require.NoError(t, m.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `intervalcov_clusters_total{key="uint64"} 2`), string(b))
}

func TestWriteTextfileBadPath(t *testing.T) {
	m := New("uint64")
	assert.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")))
}
