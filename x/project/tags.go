package project

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/custody/errors"
)

const (
	// TagTxRecord keys the canonical payment/withdrawal record
	// stream, consumed by external indexers.
	TagTxRecord = "custody-tx"

	// TagPoolRecord keys the admin pool operation stream. It is
	// separate from the canonical feed on purpose.
	TagPoolRecord = "custody-pool"
)

// TxRecordTag serializes the canonical record into an indexing tag.
func TxRecordTag(rec *TxRecord) (common.KVPair, error) {
	value, err := rec.Marshal()
	if err != nil {
		return common.KVPair{}, errors.Wrap(err, "serialize record")
	}
	return common.KVPair{Key: []byte(TagTxRecord), Value: value}, nil
}

// PoolRecordTag serializes a pool operation record into an indexing
// tag.
func PoolRecordTag(rec *PoolRecord) (common.KVPair, error) {
	value, err := rec.Marshal()
	if err != nil {
		return common.KVPair{}, errors.Wrap(err, "serialize record")
	}
	return common.KVPair{Key: []byte(TagPoolRecord), Value: value}, nil
}
