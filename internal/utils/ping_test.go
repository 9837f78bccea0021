package utils

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingServiceReachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	assert.NoError(t, PingService(ln.Addr().String(), time.Second))
	assert.NoError(t, PingRedis(ln.Addr().String()))
}

func TestPingServiceUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	assert.Error(t, PingService(addr, 200*time.Millisecond))
}

func TestPingServiceInvalid(t *testing.T) {
	assert.Error(t, PingService("http://", time.Second))
}
