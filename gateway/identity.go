package gateway

import (
	"os"
	"path"

	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"github.com/pkg/errors"
)

// NewIdentity loads the X.509 enrollment certificate from certDir and
// binds it to the organization's MSP identifier. The directory must
// hold exactly one certificate file.
func NewIdentity(mspID, certDir string) (*identity.X509Identity, error) {

	certificatePEM, err := readSingleFile(certDir)
	if err != nil {
		return nil, newError(KindCredential, "load-certificate", err)
	}

	certificate, err := identity.CertificateFromPEM(certificatePEM)
	if err != nil {
		return nil, newError(KindCredential, "parse-certificate", err)
	}

	id, err := identity.NewX509Identity(mspID, certificate)
	if err != nil {
		return nil, newError(KindCredential, "bind-identity", err)
	}

	return id, nil
}

// NewSigner parses the PEM-encoded private key found in keyDir and
// returns a signing function over message digests. The key material
// stays inside the returned closure; it is never serialized again.
func NewSigner(keyDir string) (identity.Sign, error) {

	keyPEM, err := readSingleFile(keyDir)
	if err != nil {
		return nil, newError(KindCredential, "load-key", err)
	}

	privateKey, err := identity.PrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, newError(KindCredential, "parse-key", err)
	}

	sign, err := identity.NewPrivateKeySign(privateKey)
	if err != nil {
		return nil, newError(KindCredential, "bind-signer", err)
	}

	return sign, nil
}

// readSingleFile loads the contents of the only file in dir. An empty
// directory means the credential is missing; more than one entry is
// ambiguous and refused rather than resolved by listing order.
func readSingleFile(dir string) ([]byte, error) {

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("no credential file found in %s", dir)
	}
	if len(entries) > 1 {
		return nil, errors.Errorf("ambiguous credential directory %s: %d entries, want exactly 1", dir, len(entries))
	}
	if entries[0].IsDir() {
		return nil, errors.Errorf("credential entry %s is a directory", path.Join(dir, entries[0].Name()))
	}

	return os.ReadFile(path.Join(dir, entries[0].Name()))
}
