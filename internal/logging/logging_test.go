/*
 * logging_test.go, part of ffinspector.
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

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rmera/ffinspector/internal/config"
)

func TestNew(Te *testing.T) {
	l, err := New(config.Log{Level: "warn", Format: "json"})
	require.NoError(Te, err)
	assert.False(Te, l.Core().Enabled(zap.InfoLevel))
	assert.True(Te, l.Core().Enabled(zap.WarnLevel))

	l, err = New(config.Log{Level: "DEBUG", Format: "console"})
	require.NoError(Te, err)
	assert.True(Te, l.Core().Enabled(zap.DebugLevel))

	_, err = New(config.Log{Level: "loud", Format: "json"})
	assert.Error(Te, err)
	_, err = New(config.Log{Level: "info", Format: "xml"})
	assert.Error(Te, err)
}
