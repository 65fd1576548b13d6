package gateway

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// transactionError builds a client.TransactionError carrying the given gRPC
// status code. The SDK exposes no constructor and the embedded status error
// is an unexported field, so it is populated via reflection.
func transactionError(code codes.Code, txID string) *client.TransactionError {
	te := &client.TransactionError{TransactionID: txID}

	grpcErrField := reflect.ValueOf(te).Elem().FieldByName("grpcError")
	grpcErr := reflect.New(grpcErrField.Type().Elem())
	errField := grpcErr.Elem().FieldByName("error")
	reflect.NewAt(errField.Type(), unsafe.Pointer(errField.UnsafeAddr())).
		Elem().Set(reflect.ValueOf(status.Error(code, "stub")))
	reflect.NewAt(grpcErrField.Type(), unsafe.Pointer(grpcErrField.UnsafeAddr())).
		Elem().Set(grpcErr)

	return te
}

func TestClassifyEndorsePhase(t *testing.T) {

	err := classify("CreateAsset", phaseSubmit, &client.EndorseError{
		TransactionError: transactionError(codes.DeadlineExceeded, "tx1"),
	})
	assert.True(t, IsKind(err, KindEndorseTimeout))

	err = classify("CreateAsset", phaseSubmit, &client.EndorseError{
		TransactionError: transactionError(codes.Aborted, "tx2"),
	})
	assert.True(t, IsRejected(err))
}

func TestClassifySubmitPhase(t *testing.T) {

	err := classify("UpdateAsset", phaseSubmit, &client.SubmitError{
		TransactionError: transactionError(codes.DeadlineExceeded, "tx3"),
	})
	assert.True(t, IsKind(err, KindSubmitTimeout))

	err = classify("UpdateAsset", phaseSubmit, &client.SubmitError{
		TransactionError: transactionError(codes.Unavailable, "tx4"),
	})
	assert.True(t, IsKind(err, KindInternal))
}

func TestClassifyCommitStatusPhase(t *testing.T) {

	err := classify("UpdateAsset", phaseSubmit, &client.CommitStatusError{
		TransactionError: transactionError(codes.DeadlineExceeded, "tx5"),
	})
	assert.True(t, IsKind(err, KindCommitTimeout))
}

func TestClassifyValidationFailure(t *testing.T) {

	err := classify("UpdateAsset", phaseSubmit, &client.CommitError{
		TransactionID: "tx6",
		Code:          peer.TxValidationCode_MVCC_READ_CONFLICT,
	})
	assert.True(t, IsRejected(err))
}

func TestClassifyEvaluateDeadline(t *testing.T) {

	err := classify("GetAllAssets", phaseEvaluate, status.Error(codes.DeadlineExceeded, "stub"))
	assert.True(t, IsKind(err, KindEvaluateTimeout))
}

func TestClassifyUnknownFailure(t *testing.T) {

	err := classify("GetAllAssets", phaseEvaluate, errors.New("boom"))
	assert.True(t, IsKind(err, KindInternal))

	assert.Nil(t, classify("GetAllAssets", phaseEvaluate, nil))
}

func TestErrorReportsOpPhaseAndTransaction(t *testing.T) {

	err := classify("CreateAsset", phaseSubmit, &client.EndorseError{
		TransactionError: transactionError(codes.DeadlineExceeded, "tx7"),
	})

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)

	assert.Equal(t, "CreateAsset", gwErr.Op)
	assert.Equal(t, "tx7", gwErr.TransactionID)
	assert.True(t, gwErr.Timeout())
	assert.Contains(t, gwErr.Error(), "CreateAsset")
	assert.Contains(t, gwErr.Error(), "EndorseTimeout")
	assert.Contains(t, gwErr.Error(), "tx7")
}

func TestTimeoutKinds(t *testing.T) {

	assert.False(t, (&Error{Kind: KindRejected}).Timeout())
	assert.False(t, (&Error{Kind: KindCredential}).Timeout())
	for _, kind := range []Kind{KindEvaluateTimeout, KindEndorseTimeout, KindSubmitTimeout, KindCommitTimeout} {
		assert.True(t, (&Error{Kind: kind}).Timeout())
	}
}
