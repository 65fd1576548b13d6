package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannelBadRootCertificate(t *testing.T) {

	_, err := NewChannel([]byte("garbage"), "localhost:7051", "peer0.org1.example.com")
	assert.True(t, IsKind(err, KindConnectionSetup))
}

func TestNewChannelDialsLazily(t *testing.T) {

	certPEM, _ := testCredentials(t)

	// nothing listens on this address; construction must still
	// succeed because the handshake only happens on the first RPC
	conn, err := NewChannel(certPEM, "localhost:1", "peer0.org1.example.com")
	require.NoError(t, err)
	require.NotNil(t, conn)

	assert.NoError(t, conn.Close())
}
