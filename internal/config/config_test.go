/*
 * config_test.go, part of ffbench.
 *
 * Copyright 2024 The ffbench authors
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
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "ffbench.yaml")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "force-field.offxml", cfg.Run.ForceField)
	assert.Equal(t, 16, cfg.Run.Procs)
	assert.Equal(t, []string{"industry"}, cfg.Plot.InputDirs)
	assert.Nil(t, cfg.Outliers)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestPrecedence(t *testing.T) {
	name := writeConfig(t, `
log_level: debug
run:
  procs: 4
  force_field: sage.offxml
plot:
  input_dirs: [industry, tm]
`)
	t.Setenv("FFBENCH_RUN_PROCS", "8")
	t.Setenv("FFBENCH_OUTLIERS", "2.5")
	cfg, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Run.Procs, "the environment overrides the file")
	assert.Equal(t, "sage.offxml", cfg.Run.ForceField, "the file overrides the defaults")
	assert.Equal(t, "tmp.sqlite", cfg.Run.Database, "defaults are kept")
	assert.Equal(t, []string{"industry", "tm"}, cfg.Plot.InputDirs)
	require.NotNil(t, cfg.Outliers)
	assert.InDelta(t, 2.5, *cfg.Outliers, 1e-12)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "run:\n  procs: 0\n"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "log_level: loud\n"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "no_such_field: 1\n"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	t.Setenv("FFBENCH_OUTLIERS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
