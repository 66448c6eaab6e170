package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

const chainID = "testchain-1"

var projectAddr = custody.NewCondition("project", "seq", []byte{0, 0, 0, 0, 0, 0, 0, 1}).Address()

func TestVerifyPayment(t *testing.T) {
	priv := crypto.GenPrivKey()
	signer := priv.PublicKey()

	req := &PaymentRequest{
		ProjectId: 1,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  7,
		Deadline:  1234567890,
	}
	toSign, err := BuildPaymentSignBytes(req, chainID, projectAddr)
	require.NoError(t, err)
	sig, err := priv.Sign(toSign)
	require.NoError(t, err)

	assert.NoError(t, VerifyPayment(req, sig, signer, chainID, projectAddr))

	// a different signer must not verify
	other := crypto.GenPrivKey().PublicKey()
	err = VerifyPayment(req, sig, other, chainID, projectAddr)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// a tampered request must not verify
	tampered := *req
	tampered.Amount = coin.NewCoinp(999, "IOV")
	err = VerifyPayment(&tampered, sig, signer, chainID, projectAddr)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestSignBytesBindDomain(t *testing.T) {
	priv := crypto.GenPrivKey()
	signer := priv.PublicKey()

	req := &PaymentRequest{
		ProjectId: 1,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  7,
		Deadline:  1234567890,
	}
	toSign, err := BuildPaymentSignBytes(req, chainID, projectAddr)
	require.NoError(t, err)
	sig, err := priv.Sign(toSign)
	require.NoError(t, err)

	// another chain
	err = VerifyPayment(req, sig, signer, "otherchain-9", projectAddr)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// another project address
	otherAddr := custody.NewCondition("project", "seq", []byte{9}).Address()
	err = VerifyPayment(req, sig, signer, chainID, otherAddr)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestPaymentSignatureNotValidForWithdrawal(t *testing.T) {
	priv := crypto.GenPrivKey()
	signer := priv.PublicKey()
	user := custody.NewCondition("test", "cond", []byte("user")).Address()

	pay := &PaymentRequest{
		ProjectId: 1,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  7,
		Deadline:  1234567890,
	}
	toSign, err := BuildPaymentSignBytes(pay, chainID, projectAddr)
	require.NoError(t, err)
	sig, err := priv.Sign(toSign)
	require.NoError(t, err)

	wd := &WithdrawalRequest{
		User:      user,
		ProjectId: 1,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  7,
		Deadline:  1234567890,
	}
	err = VerifyWithdrawal(wd, sig, signer, chainID, projectAddr)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestRequestValidate(t *testing.T) {
	valid := PaymentRequest{
		ProjectId: 1,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  7,
		Deadline:  1234567890,
	}
	assert.NoError(t, valid.Validate())

	noAmount := valid
	noAmount.Amount = nil
	assert.Error(t, noAmount.Validate())

	negative := valid
	negative.Amount = coin.NewCoinp(-1, "IOV")
	assert.Error(t, negative.Validate())

	noSerial := valid
	noSerial.SerialNo = 0
	assert.Error(t, noSerial.Validate())
}
