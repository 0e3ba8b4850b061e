// File: config/config_test.go
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/rivermedia/config"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultsWhenNoFlags(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, config.AllocatorMalloc, cfg.Allocator)
	require.Equal(t, 1, cfg.Threads)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := config.Parse([]string{
		"--threads", "4",
		"--streams", "2",
		"--dst-ips", "10.0.0.1,10.0.0.2",
		"--dst-ports", "5004,5006",
		"--allocator-type", "huge",
		"--ext-seq-num",
	})
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Threads)
	require.Equal(t, 2, cfg.Streams)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.DstIPs)
	require.Equal(t, []int{5004, 5006}, cfg.DstPorts)
	require.Equal(t, config.AllocatorHuge, cfg.Allocator)
	require.True(t, cfg.ExtendedSeqNum)
}

func TestParseRejectsBadAllocator(t *testing.T) {
	_, err := config.Parse([]string{"--allocator-type", "quantum"})
	require.Error(t, err)
}

func TestParseLoadsYAMLOverlayUnderCLI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 8\nstreams: 3\n"), 0o644))

	cfg, err := config.Parse([]string{"--config", path, "--streams", "6"})
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Threads)
	require.Equal(t, 6, cfg.Streams, "explicit CLI flag must win over the YAML overlay")
}
