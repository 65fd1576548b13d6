package gateway

import (
	"github.com/hyperledger/fabric-gateway/pkg/client"
)

// Contract exposes the two transaction kinds the deployed chaincode
// offers to this client. All arguments are positional strings by the
// chaincode's contract.
type Contract struct {
	contract *client.Contract
}

// Evaluate runs a read-only transaction against a single peer. No
// endorsement or ordering happens; the evaluate deadline bounds the
// whole call. The returned bytes are whatever payload the contract
// function produced, undecoded.
func (c *Contract) Evaluate(fn string, args ...string) ([]byte, error) {

	result, err := c.contract.EvaluateTransaction(fn, args...)
	if err != nil {
		return nil, classify(fn, phaseEvaluate, err)
	}

	return result, nil
}

// Submit runs a state-changing transaction: endorsement collection,
// submission to ordering, then a wait for commit finality, each under
// its own deadline. The call returns only once the transaction is
// committed or any phase failed; there is no asynchronous path.
func (c *Contract) Submit(fn string, args ...string) ([]byte, error) {

	result, err := c.contract.SubmitTransaction(fn, args...)
	if err != nil {
		return nil, classify(fn, phaseSubmit, err)
	}

	return result, nil
}
