package postgres

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/pkg/config"
)

func TestBuildPoolConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "pedidos", SSLMode: "disable",
		MaxConns: 8, MinConns: 2, ForceIPv4: true,
	}

	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.NotNil(t, pc.ConnConfig.DialFunc)
	assert.NotNil(t, pc.AfterConnect)
	assert.Equal(t, "pedidos", pc.ConnConfig.Database)
}

func TestBuildPoolConfig_DatabaseURLYMinMayorQueMax(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@localhost:6543/otra?sslmode=disable",
		MaxConns:    2,
		MinConns:    5,
	}

	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "otra", pc.ConnConfig.Database)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(2), pc.MaxConns)
	assert.Less(t, pc.MinConns, int32(5))
}

func TestDialIPv4_DireccionLiteral(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	conn, err := dialIPv4(context.Background(), "tcp", ln.Addr().String())
	require.NoError(t, err)
	conn.Close()
}
