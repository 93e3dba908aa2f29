package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/pkg/logger"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "info").Component("ledger")

	l.Info().Str("order_id", "o-1").Msg("reconciliado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "o-1", line["order_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNivel_FiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "warn")

	l.Debug().Msg("no")
	l.Info().Msg("no")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("si")
	assert.NotZero(t, buf.Len())
}

func TestNop_NoPanica(t *testing.T) {
	var l *logger.Logger
	assert.NotPanics(t, func() {
		l.Component("x").Error().Msg("descartado")
		logger.Nop().Info().Msg("descartado")
	})
}

func TestNivelInvalido_UsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "ruidoso")

	l.Debug().Msg("no")
	assert.Zero(t, buf.Len())
	l.Info().Msg("si")
	assert.NotZero(t, buf.Len())
}
