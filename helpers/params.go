package helpers

import (
	"github.com/op/go-logging"
)

// ClientParameters ...
type ClientParameters struct {
	MSPID        string
	CertDir      string
	KeyDir       string
	TLSCertPath  string
	PeerEndpoint string
	GatewayPeer  string
	Channel      string
	Chaincode    string
	Concurrency  int // load mode: max in-flight votes
	Frequency    int // load mode: mean seconds between votes, 0 = full speed
	Candidates   []string
}

// MakeClientParameters ...
func MakeClientParameters(logger *logging.Logger, mspID, certDir, keyDir, tlsCertPath, peerEndpoint, gatewayPeer, channel, chaincode string, concurrency, frequency int, candidates []string) (params *ClientParameters) {

	params = &ClientParameters{
		MSPID:        mspID,
		CertDir:      certDir,
		KeyDir:       keyDir,
		TLSCertPath:  tlsCertPath,
		PeerEndpoint: peerEndpoint,
		GatewayPeer:  gatewayPeer,
		Channel:      channel,
		Chaincode:    chaincode,
		Concurrency:  concurrency,
		Frequency:    frequency,
		Candidates:   candidates,
	}

	logger.Debugf("%+v", params)

	return
}
