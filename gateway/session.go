package gateway

import (
	"time"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-gateway/pkg/hash"
	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"google.golang.org/grpc"
)

// TimeoutPolicy holds one client-side deadline per protocol phase.
// Each deadline is applied as an absolute expiry computed when the
// call starts, and only to its own phase.
//
// Evaluate and submit are fire-and-return operations with short
// budgets. Endorsement fans out to multiple endorsing peers and gets
// a longer one. Commit status waits for ordering and block cutting,
// whose latency is bounded by the ordering service's batch timeout
// rather than network round trips, so it gets the longest.
type TimeoutPolicy struct {
	Evaluate     time.Duration
	Endorse      time.Duration
	Submit       time.Duration
	CommitStatus time.Duration
}

// DefaultTimeouts ...
func DefaultTimeouts() TimeoutPolicy {
	return TimeoutPolicy{
		Evaluate:     5 * time.Second,
		Endorse:      15 * time.Second,
		Submit:       5 * time.Second,
		CommitStatus: 60 * time.Second,
	}
}

func (t TimeoutPolicy) withDefaults() TimeoutPolicy {
	defaults := DefaultTimeouts()
	if t.Evaluate <= 0 {
		t.Evaluate = defaults.Evaluate
	}
	if t.Endorse <= 0 {
		t.Endorse = defaults.Endorse
	}
	if t.Submit <= 0 {
		t.Submit = defaults.Submit
	}
	if t.CommitStatus <= 0 {
		t.CommitStatus = defaults.CommitStatus
	}
	return t
}

// Session is an authenticated gateway connection scoped to one client
// identity. It owns the identity and signer for its lifetime but not
// the underlying channel, which the caller releases at shutdown.
type Session struct {
	gw *client.Gateway
}

// Connect binds identity, signer, digest function and the per-phase
// timeout policy into a session. Zero timeouts fall back to the
// defaults. No RPC is issued here.
func Connect(conn grpc.ClientConnInterface, id identity.Identity, sign identity.Sign, digest hash.Hash, timeouts TimeoutPolicy) (*Session, error) {

	timeouts = timeouts.withDefaults()

	gw, err := client.Connect(
		id,
		client.WithSign(sign),
		client.WithHash(digest),
		client.WithClientConnection(conn),
		client.WithEvaluateTimeout(timeouts.Evaluate),
		client.WithEndorseTimeout(timeouts.Endorse),
		client.WithSubmitTimeout(timeouts.Submit),
		client.WithCommitStatusTimeout(timeouts.CommitStatus),
	)
	if err != nil {
		return nil, newError(KindConnectionSetup, "connect", err)
	}

	return &Session{gw: gw}, nil
}

// Contract scopes the session to one channel and one deployed
// chaincode. This is pure metadata binding: a syntactically valid
// name cannot fail here, only on the first actual call.
func (session *Session) Contract(channelName, chaincodeName string) *Contract {
	network := session.gw.GetNetwork(channelName)
	return &Contract{contract: network.GetContract(chaincodeName)}
}

// Close releases the session. The gRPC channel is left open for any
// other session sharing it.
func (session *Session) Close() error {
	return session.gw.Close()
}
