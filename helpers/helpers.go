package helpers

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/dbogatov/fabric-amcl/amcl"
)

// RandomString ...
func RandomString(prg *amcl.RAND, length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, length)
	for i := range b {
		r := prg.GetByte()
		b[i] = charset[int(r)%len(charset)]
	}
	return string(b)
}

// RandomULong ...
func RandomULong(prg *amcl.RAND) uint64 {
	var raw [8]byte
	for i := 0; i < 8; i++ {
		raw[i] = prg.GetByte()
	}
	return binary.BigEndian.Uint64(raw[:])
}

var randMutex = &sync.Mutex{}

// NewRand ...
func NewRand() (prg *amcl.RAND) {

	randMutex.Lock()
	defer randMutex.Unlock()

	prg = amcl.NewRAND()
	goPrg := rand.New(rand.NewSource(time.Now().UnixNano()))
	var raw [32]byte
	for i := 0; i < 32; i++ {
		raw[i] = byte(goPrg.Int())
	}
	prg.Seed(32, raw[:])

	return
}

// NewRandSeed ...
func NewRandSeed(seed []byte) (prg *amcl.RAND) {

	prg = amcl.NewRAND()
	prg.Seed(len(seed), seed)

	return
}

// PrettyJSON re-indents a raw JSON payload for console output.
// Payloads that are not valid JSON are returned verbatim.
func PrettyJSON(payload []byte) string {

	var pretty bytes.Buffer
	if e := json.Indent(&pretty, payload, "", "  "); e != nil {
		return string(payload)
	}

	return pretty.String()
}
