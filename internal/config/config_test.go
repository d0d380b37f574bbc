/*
 * config_test.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(Te *testing.T) {
	cfg, err := Load("")
	require.NoError(Te, err)
	assert.Equal(Te, ":8080", cfg.Server.Addr)
	assert.Equal(Te, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(Te, 4, cfg.Server.Workers)
	assert.Equal(Te, "info", cfg.Log.Level)
	assert.True(Te, cfg.Cache.Enabled)
	assert.Equal(Te, time.Hour, cfg.Cache.TTL)
	assert.Equal(Te, 2000, cfg.Minimizer.MaxIterations)
	assert.InDelta(Te, 1e-6, cfg.Minimizer.Tolerance, 1e-15)
}

func TestFileAndEnvironment(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "ffinspect.yaml")
	doc := "server:\n  addr: \":9000\"\n  workers: 2\nlog:\n  format: console\nminimizer:\n  max_iterations: 50\n"
	require.NoError(Te, os.WriteFile(path, []byte(doc), 0o644))
	Te.Setenv("FFINSPECT_SERVER_WORKERS", "8")
	Te.Setenv("FFINSPECT_CACHE_REDIS_ADDR", "localhost:6379")
	cfg, err := Load(path)
	require.NoError(Te, err)
	assert.Equal(Te, ":9000", cfg.Server.Addr)
	assert.Equal(Te, 8, cfg.Server.Workers)
	assert.Equal(Te, "console", cfg.Log.Format)
	assert.Equal(Te, 50, cfg.Minimizer.MaxIterations)
	assert.Equal(Te, "localhost:6379", cfg.Cache.RedisAddr)
}

func TestInvalid(Te *testing.T) {
	_, err := Load(filepath.Join(Te.TempDir(), "missing.yaml"))
	assert.Error(Te, err)

	bad := []string{
		"log:\n  level: loud\n",
		"log:\n  format: xml\n",
		"server:\n  workers: 0\n",
		"minimizer:\n  tolerance: -1\n",
		"minimizer:\n  max_iterations: 0\n",
		"cache:\n  memory_entries: 0\n",
	}
	for _, doc := range bad {
		path := filepath.Join(Te.TempDir(), "bad.yaml")
		require.NoError(Te, os.WriteFile(path, []byte(doc), 0o644))
		_, err := Load(path)
		assert.Error(Te, err, doc)
	}
}
