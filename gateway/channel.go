package gateway

import (
	"crypto/x509"

	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// NewChannel builds a TLS gRPC connection to one gateway peer. The
// server's certificate must chain to rootCertPEM and present
// serverNameOverride as its host name. Dialing is lazy: the handshake
// happens on the first RPC, so connectivity problems surface at call
// time, not here.
func NewChannel(rootCertPEM []byte, address, serverNameOverride string) (*grpc.ClientConn, error) {

	certificate, err := identity.CertificateFromPEM(rootCertPEM)
	if err != nil {
		return nil, newError(KindConnectionSetup, "parse-tls-root", err)
	}

	certPool := x509.NewCertPool()
	certPool.AddCert(certificate)
	transportCredentials := credentials.NewClientTLSFromCert(certPool, serverNameOverride)

	connection, err := grpc.NewClient(address, grpc.WithTransportCredentials(transportCredentials))
	if err != nil {
		return nil, newError(KindConnectionSetup, "create-channel", err)
	}

	return connection, nil
}
