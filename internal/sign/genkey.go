package sign

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

// KeyExpiry is how long a generated certificate remains valid.
const KeyExpiry = 2 * 365 * 24 * time.Hour

// Certificate is a freshly generated keypair, ASCII-armored, plus the
// identifying fields needed to name the output files and print setup
// instructions.
type Certificate struct {
	ID       string
	Email    string
	PubKey   []byte
	PrivKey  []byte
	ExpireAt time.Time
}

// AskForKeyInfo reads a name and e-mail address from r, echoing prompts to
// w, the way an interactive terminal session would.
func AskForKeyInfo(r io.Reader, w io.Writer) (name, email string, err error) {
	scanner := bufio.NewScanner(r)

	fmt.Fprint(w, "Your name: ")
	if !scanner.Scan() {
		return "", "", pverr.New(pverr.IoError, "sign", scanner.Err())
	}
	name = scanner.Text()

	fmt.Fprint(w, "Your e-mail address: ")
	if !scanner.Scan() {
		return "", "", pverr.New(pverr.IoError, "sign", scanner.Err())
	}
	email = scanner.Text()

	return name, email, nil
}

// GenerateCertificate creates a new OpenPGP entity for (name, email),
// returning its armored public and private key material.
func GenerateCertificate(name, email string) (*Certificate, error) {
	cfg := &packet.Config{
		RSABits: 4096,
		Time:    time.Now,
	}
	entity, err := openpgp.NewEntity(name, "", email, cfg)
	if err != nil {
		return nil, pverr.New(pverr.SignError, "sign", err)
	}

	expireAt := time.Now().Add(KeyExpiry)
	lifetimeSecs := uint32(KeyExpiry.Seconds())
	for _, ident := range entity.Identities {
		ident.SelfSignature.KeyLifetimeSecs = &lifetimeSecs
		if err := ident.SelfSignature.SignUserId(ident.UserId.Id, entity.PrimaryKey, entity.PrivateKey, cfg); err != nil {
			return nil, pverr.New(pverr.SignError, "sign", err)
		}
	}

	var pubBuf, privBuf bytes.Buffer
	if err := armorWrite(&pubBuf, openpgp.PublicKeyType, entity.Serialize); err != nil {
		return nil, err
	}
	if err := armorWrite(&privBuf, openpgp.PrivateKeyType, func(w io.Writer) error {
		return entity.SerializePrivate(w, cfg)
	}); err != nil {
		return nil, err
	}

	return &Certificate{
		ID:       sanitizeID(email),
		Email:    email,
		PubKey:   pubBuf.Bytes(),
		PrivKey:  privBuf.Bytes(),
		ExpireAt: expireAt,
	}, nil
}

func armorWrite(buf *bytes.Buffer, blockType string, serialize func(io.Writer) error) error {
	w, err := armor.Encode(buf, blockType, nil)
	if err != nil {
		return pverr.New(pverr.SignError, "sign", err)
	}
	if err := serialize(w); err != nil {
		return pverr.New(pverr.SignError, "sign", err)
	}
	if err := w.Close(); err != nil {
		return pverr.New(pverr.SignError, "sign", err)
	}
	return nil
}

func sanitizeID(email string) string {
	out := make([]rune, 0, len(email))
	for _, r := range email {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// Instructions renders the post-generation guidance: where the key files
// went and what config value to set.
func Instructions(pubPath, privPath string, expireAt time.Time, configPath string) string {
	return fmt.Sprintf(
		"Generated a new signing key.\n\n"+
			"  Public key:  %s\n"+
			"  Private key: %s\n"+
			"  Expires:     %s\n\n"+
			"Set \"certificate: %s\" in %s to use it,\n"+
			"or \"certificate: gpg://<key-id>\" to sign via a local gpg-agent instead.\n",
		pubPath, privPath, expireAt.Format(time.RFC1123), privPath, configPath)
}
