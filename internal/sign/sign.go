// Package sign resolves the configured certificate value into the signer
// collaborator the release renderer calls through: either in-process
// signing from a loaded keypair, or an agent-offloaded signer addressed by
// a "gpg://<id>" reference.
package sign

import (
	"strings"

	"github.com/aptly-dev/aptly/pgp"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

const gpgScheme = "gpg://"

// New resolves the certificate configuration value into a pgp.Signer. An
// empty certificate yields (nil, nil): the caller must treat a nil signer
// as "write an unsigned Release and warn", per the error-handling policy
// for an unconfigured certificate.
func New(certificate string) (pgp.Signer, error) {
	if certificate == "" {
		return nil, nil
	}

	var signer pgp.Signer
	if id, ok := strings.CutPrefix(certificate, gpgScheme); ok {
		// Agent-offloaded: the local gpg-agent holds the private key,
		// addressed by key ID rather than a keyring file.
		gpgSigner := &pgp.GpgSigner{}
		gpgSigner.SetKey(id)
		signer = gpgSigner
	} else {
		// In-process: certificate names a secret keyring file loaded
		// directly into the Go implementation.
		goSigner := &pgp.GoSigner{}
		goSigner.SetKeyRing(certificate, certificate)
		signer = goSigner
	}

	if err := signer.Init(); err != nil {
		return nil, pverr.New(pverr.SignError, "sign", err)
	}
	return signer, nil
}
