package sigs

import (
	"crypto/sha512"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xC5, 0x0D, 1}

const (
	paymentDomain    = byte(1)
	withdrawalDomain = byte(2)
)

/*
BuildPaymentSignBytes combines all info that a payment authorization
covers, using the following format:

	version | domain | len(chainID) | chainID      | project address | serialized request
	4bytes  | 1 byte | uint8        | ascii string | 20 bytes        | protobuf

This is then prehashed with sha512 before fed into the public key
signing/verification step. The chain ID and the project address bind
the signature to one project on one chain, so it cannot be redirected.
*/
func BuildPaymentSignBytes(req *PaymentRequest, chainID string, project custody.Address) ([]byte, error) {
	raw, err := req.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "serialize request")
	}
	return buildSignBytes(paymentDomain, chainID, project, raw)
}

// BuildWithdrawalSignBytes works as BuildPaymentSignBytes, in the
// withdrawal domain. The beneficiary is part of the serialized
// request.
func BuildWithdrawalSignBytes(req *WithdrawalRequest, chainID string, project custody.Address) ([]byte, error) {
	raw, err := req.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "serialize request")
	}
	return buildSignBytes(withdrawalDomain, chainID, project, raw)
}

func buildSignBytes(domain byte, chainID string, project custody.Address, raw []byte) ([]byte, error) {
	if !custody.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	if err := project.Validate(); err != nil {
		return nil, errors.Wrap(err, "project address")
	}

	output := make([]byte, 0, len(SignCodeV1)+2+len(chainID)+len(project)+len(raw))
	output = append(output, SignCodeV1...)
	output = append(output, domain)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, project...)
	output = append(output, raw...)

	// sha512 gives a constant length output to feed into eddsa
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// VerifyPayment checks the signature of a payment request against
// the project's current signer. A failure is ErrUnauthorized; the
// deadline is not checked here.
func VerifyPayment(req *PaymentRequest, sig *crypto.Signature, signer *crypto.PublicKey, chainID string, project custody.Address) error {
	toSign, err := BuildPaymentSignBytes(req, chainID, project)
	if err != nil {
		return err
	}
	if !signer.Verify(toSign, sig) {
		return errors.Wrap(errors.ErrUnauthorized, "invalid payment signature")
	}
	return nil
}

// VerifyWithdrawal checks the signature of a withdrawal request
// against the project's current signer.
func VerifyWithdrawal(req *WithdrawalRequest, sig *crypto.Signature, signer *crypto.PublicKey, chainID string, project custody.Address) error {
	toSign, err := BuildWithdrawalSignBytes(req, chainID, project)
	if err != nil {
		return err
	}
	if !signer.Verify(toSign, sig) {
		return errors.Wrap(errors.ErrUnauthorized, "invalid withdrawal signature")
	}
	return nil
}
