/*
Package crypto provides the ed25519 keys and signatures used to
authorize payment and withdrawal requests.
*/
package crypto

import (
	"golang.org/x/crypto/ed25519"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ExtensionName is used to construct signature conditions
const ExtensionName = "sigs"

// Verify verifies the signature was created with this message and
// public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	publicKey := ed25519.PublicKey(p.Ed25519)
	return ed25519.Verify(publicKey, message, sig.Ed25519)
}

// Condition encodes the public key into a permission
func (p *PublicKey) Condition() custody.Condition {
	return custody.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the short identity derived from the public key
func (p *PublicKey) Address() custody.Address {
	return p.Condition().Address()
}

// Validate ensures the key has the expected size
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 public key")
	}
	return nil
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid ed25519 private key")
	}
	privateKey := ed25519.PrivateKey(p.Ed25519)
	bz := ed25519.Sign(privateKey, message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	privateKey := ed25519.PrivateKey(p.Ed25519)
	pub := privateKey.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKey returns a random new private key
func GenPrivKey() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyFromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external
// randomness, or for deterministic keys in test cases.
func PrivKeyFromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}
