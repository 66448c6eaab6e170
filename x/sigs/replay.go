package sigs

import (
	"encoding/binary"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// ReplayGuard consumes request serial numbers. A serial number can
// be consumed only once per namespace, so a signed request cannot be
// submitted twice. Payments and withdrawals use disjoint namespaces:
// the same serial may be used once in each.
type ReplayGuard struct {
	payments    orm.ModelBucket
	withdrawals orm.ModelBucket
}

// NewReplayGuard returns a guard over the two used-serial buckets.
func NewReplayGuard() ReplayGuard {
	return ReplayGuard{
		payments:    orm.NewModelBucket("pserial"),
		withdrawals: orm.NewModelBucket("wserial"),
	}
}

// ConsumePayment marks the payment serial as used. Returns ErrReplay
// if it was consumed before.
func (g ReplayGuard) ConsumePayment(ctx custody.Context, db custody.KVStore, projectID, serialNo uint64) error {
	return g.consume(ctx, db, g.payments, projectID, serialNo)
}

// ConsumeWithdrawal marks the withdrawal serial as used. Returns
// ErrReplay if it was consumed before.
func (g ReplayGuard) ConsumeWithdrawal(ctx custody.Context, db custody.KVStore, projectID, serialNo uint64) error {
	return g.consume(ctx, db, g.withdrawals, projectID, serialNo)
}

// PaymentUsed checks if the payment serial was consumed, without
// modifying state.
func (g ReplayGuard) PaymentUsed(db custody.ReadOnlyKVStore, projectID, serialNo uint64) (bool, error) {
	return g.payments.Has(db, serialKey(projectID, serialNo))
}

// WithdrawalUsed checks if the withdrawal serial was consumed,
// without modifying state.
func (g ReplayGuard) WithdrawalUsed(db custody.ReadOnlyKVStore, projectID, serialNo uint64) (bool, error) {
	return g.withdrawals.Has(db, serialKey(projectID, serialNo))
}

func (g ReplayGuard) consume(ctx custody.Context, db custody.KVStore, b orm.ModelBucket, projectID, serialNo uint64) error {
	key := serialKey(projectID, serialNo)
	used, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if used {
		return errors.Wrapf(ErrReplay, "project %d serial %d", projectID, serialNo)
	}
	now, err := custody.BlockTime(ctx)
	if err != nil {
		return err
	}
	return b.Put(db, key, &UsedSerial{UsedAt: custody.AsUnixTime(now)})
}

// serialKey scopes a serial number to its project.
func serialKey(projectID, serialNo uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key, projectID)
	binary.BigEndian.PutUint64(key[8:], serialNo)
	return key
}
