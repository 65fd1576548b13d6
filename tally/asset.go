package tally

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/dbogatov/fabric-voter/gateway"
	"github.com/pkg/errors"
)

// Asset is the ledger's generic five-field asset record. The tally
// protocol repurposes it: Owner carries the candidate name and Size
// the vote count as a numeric string. The shape is fixed by the
// deployed chaincode and must not change.
type Asset struct {
	ID             string `json:"ID"`
	Color          string `json:"Color"`
	Size           string `json:"Size"`
	Owner          string `json:"Owner"`
	AppraisedValue string `json:"AppraisedValue"`
}

// DecodeAssets parses a GetAllAssets payload into the asset
// collection, preserving wire order for the scan. The contract may
// return either a JSON array of records or a JSON object keyed by
// string; object keys are walked in document order, never map order.
func DecodeAssets(payload []byte) ([]Asset, error) {

	decoder := json.NewDecoder(bytes.NewReader(payload))

	token, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, decodeError(errors.New("empty payload"))
		}
		return nil, decodeError(err)
	}

	delim, ok := token.(json.Delim)
	if !ok {
		return nil, decodeError(errors.Errorf("payload is %v, want an array or object of assets", token))
	}

	var assets []Asset
	switch delim {
	case '[':
		for decoder.More() {
			var asset Asset
			if err := decoder.Decode(&asset); err != nil {
				return nil, decodeError(err)
			}
			assets = append(assets, asset)
		}
	case '{':
		for decoder.More() {
			if _, err := decoder.Token(); err != nil { // key, unused
				return nil, decodeError(err)
			}
			var asset Asset
			if err := decoder.Decode(&asset); err != nil {
				return nil, decodeError(err)
			}
			assets = append(assets, asset)
		}
	default:
		return nil, decodeError(errors.Errorf("unexpected delimiter %q", delim))
	}

	if _, err := decoder.Token(); err != nil { // closing delimiter
		return nil, decodeError(err)
	}

	return assets, nil
}

func decodeError(cause error) error {
	return &gateway.Error{Kind: gateway.KindDecode, Op: "GetAllAssets", Cause: cause}
}
