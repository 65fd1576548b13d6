package helpers

import (
	"strings"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomStringAlphabetAndLength(t *testing.T) {

	prg := NewRand()

	value := RandomString(prg, 16)
	require.Len(t, value, 16)

	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for _, r := range value {
		assert.True(t, strings.ContainsRune(charset, r))
	}
}

func TestSeededRandIsDeterministic(t *testing.T) {

	seed := []byte{0x13, 0x37}

	first := RandomULong(NewRandSeed(seed))
	second := RandomULong(NewRandSeed(seed))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, RandomULong(NewRand()))
}

func TestPrettyJSON(t *testing.T) {

	assert.Equal(t, "{\n  \"a\": 1\n}", PrettyJSON([]byte(`{"a":1}`)))

	// invalid payloads pass through verbatim
	assert.Equal(t, "not json", PrettyJSON([]byte("not json")))
}

func TestMakeClientParameters(t *testing.T) {

	params := MakeClientParameters(
		logging.MustGetLogger("test"),
		"Org1MSP", "certs", "keys", "ca.crt",
		"dns:///localhost:7051", "peer0.org1.example.com",
		"mychannel", "basic",
		3, 0,
		[]string{"alice", "bob"},
	)

	assert.Equal(t, "Org1MSP", params.MSPID)
	assert.Equal(t, "mychannel", params.Channel)
	assert.Equal(t, []string{"alice", "bob"}, params.Candidates)
}
