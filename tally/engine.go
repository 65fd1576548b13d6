package tally

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dbogatov/fabric-voter/gateway"
	"github.com/dbogatov/fabric-voter/helpers"
	"github.com/pkg/errors"
)

// Transactor is the slice of the gateway contract the tally protocol
// consumes: one read-only and one state-changing operation, both over
// positional string arguments.
type Transactor interface {
	Evaluate(fn string, args ...string) ([]byte, error)
	Submit(fn string, args ...string) ([]byte, error)
}

// Engine runs the vote-tally protocol over the asset ledger.
type Engine struct {
	contract Transactor
}

// MakeEngine ...
func MakeEngine(contract Transactor) (engine *Engine) {

	engine = &Engine{
		contract: contract,
	}

	return
}

// VoteResult reports the asset a vote landed on. The identifier is
// returned to the caller instead of being kept in shared state, so
// concurrent votes never observe each other's ids.
type VoteResult struct {
	AssetID   string
	Candidate string
	Count     string
	Created   bool
}

// Vote casts one vote for candidate: scan the full asset collection,
// then either create the candidate's tally row with one vote or
// increment the row it already has.
//
// The scan and the commit are two separate ledger transactions. Two
// concurrent votes for the same candidate can both read the same
// count and submit the same increment, losing one vote to the last
// writer. Callers needing stronger guarantees must serialize votes
// themselves or move the increment into the chaincode.
func (engine *Engine) Vote(candidate string) (result *VoteResult, e error) {

	assets, e := engine.scan()
	if e != nil {
		return
	}

	match := findMatch(assets, candidate)

	if match == nil {
		id := newAssetID(assets)
		logger.Debugf("no tally row matches %s, creating %s", candidate, id)

		if _, e = engine.contract.Submit("CreateAsset", id, "", "1", candidate, ""); e != nil {
			return
		}

		result = &VoteResult{AssetID: id, Candidate: candidate, Count: "1", Created: true}
		logger.Infof("created tally row %s for %s with 1 vote", id, candidate)
		return
	}

	count, err := strconv.Atoi(match.Size)
	if err != nil {
		e = &gateway.Error{
			Kind:  gateway.KindDecode,
			Op:    "UpdateAsset",
			Cause: errors.Wrapf(err, "vote count %q of asset %s is not numeric", match.Size, match.ID),
		}
		return
	}
	newCount := strconv.Itoa(count + 1)

	if _, e = engine.contract.Submit("UpdateAsset", match.ID, "", newCount, candidate, ""); e != nil {
		return
	}

	result = &VoteResult{AssetID: match.ID, Candidate: candidate, Count: newCount}
	logger.Infof("incremented tally row %s for %s to %s votes", match.ID, candidate, newCount)
	return
}

// Query reports the tally row matching candidate without mutating
// anything. A nil asset means the full scan found no match.
func (engine *Engine) Query(candidate string) (asset *Asset, e error) {

	assets, e := engine.scan()
	if e != nil {
		return
	}

	asset = findMatch(assets, candidate)
	if asset == nil {
		logger.Infof("no tally row matches %s", candidate)
		return
	}

	logger.Infof("%s holds %s votes (asset %s, color %q, appraised %q)", asset.Owner, asset.Size, asset.ID, asset.Color, asset.AppraisedValue)
	return
}

// ListAll returns the raw GetAllAssets payload. The payload is
// decoded once so a malformed dump fails here rather than at the
// consumer.
func (engine *Engine) ListAll() (payload []byte, e error) {

	payload, e = engine.contract.Evaluate("GetAllAssets")
	if e != nil {
		return
	}

	if _, e = DecodeAssets(payload); e != nil {
		payload = nil
	}

	return
}

var seedAssets = []Asset{
	{ID: "asset1", Color: "blue", Size: "5", Owner: "Tomoko", AppraisedValue: "300"},
	{ID: "asset2", Color: "red", Size: "5", Owner: "Brad", AppraisedValue: "400"},
	{ID: "asset3", Color: "green", Size: "10", Owner: "Jin Soo", AppraisedValue: "500"},
}

// Initialize seeds the ledger with the baseline asset set. A
// rejection means the asset survived from a previous run, so it is
// logged and swallowed; initialization stays re-runnable. Any other
// failure aborts the seeding.
func (engine *Engine) Initialize() (e error) {

	for _, seed := range seedAssets {
		if _, e = engine.contract.Submit("CreateAsset", seed.ID, seed.Color, seed.Size, seed.Owner, seed.AppraisedValue); e != nil {
			if gateway.IsRejected(e) {
				logger.Noticef("asset %s already on the ledger: %s", seed.ID, e)
				e = nil
				continue
			}
			return
		}
		logger.Infof("seeded asset %s", seed.ID)
	}

	return
}

func (engine *Engine) scan() ([]Asset, error) {

	payload, err := engine.contract.Evaluate("GetAllAssets")
	if err != nil {
		return nil, err
	}

	return DecodeAssets(payload)
}

// findMatch walks assets in wire order and returns the first whose
// owner contains candidate as a substring, case-sensitive. Owners
// "Tomas" and "Tom" both contain "Tom"; whichever comes first wins.
func findMatch(assets []Asset, candidate string) *Asset {

	for i := range assets {
		if strings.Contains(assets[i].Owner, candidate) {
			return &assets[i]
		}
	}

	return nil
}

// newAssetID draws a random numeric suffix and confirms it against
// the scanned collection, redrawing on collision. Uniqueness holds
// only against the snapshot this invocation's scan produced.
func newAssetID(assets []Asset) string {

	prg := helpers.NewRand()

	for {
		id := fmt.Sprintf("asset%d", helpers.RandomULong(prg)%1000000000)

		taken := false
		for i := range assets {
			if assets[i].ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}
