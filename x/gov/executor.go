package gov

import (
	"github.com/tendermint/tendermint/libs/common"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/ledger"
	"github.com/iov-one/custody/x/project"
)

// executor applies confirmed operations to a project. Membership
// changes mutate the project entity in memory and the caller persists
// it. Fund movements go through the pool ledger and emit a pool
// record tag each.
type executor struct {
	ctrl ledger.Controller
}

func (e executor) apply(db custody.KVStore, projectID uint64, prj *project.Project, op *Operation) ([]common.KVPair, error) {
	projAddr := project.Condition(project.ProjectKey(projectID)).Address()

	switch {
	case op.SetSigner != nil:
		prj.Signer = op.SetSigner.Signer
		return nil, nil

	case op.AddAdmin != nil:
		if prj.IsAdmin(op.AddAdmin.Admin) {
			return nil, nil
		}
		prj.Admins = append(prj.Admins, op.AddAdmin.Admin)
		return nil, nil

	case op.RemoveAdmin != nil:
		if !prj.IsAdmin(op.RemoveAdmin.Admin) {
			return nil, nil
		}
		if len(prj.Admins)-1 < int(prj.Threshold) {
			return nil, errors.Wrap(errors.ErrState, "admins cannot drop below threshold")
		}
		admins := make([]custody.Address, 0, len(prj.Admins)-1)
		for _, a := range prj.Admins {
			if !a.Equals(op.RemoveAdmin.Admin) {
				admins = append(admins, a)
			}
		}
		prj.Admins = admins
		return nil, nil

	case op.ChangeThreshold != nil:
		n := op.ChangeThreshold.Threshold
		if n < 1 || int(n) > len(prj.Admins) {
			return nil, errors.Wrapf(errors.ErrState, "threshold %d with %d admins", n, len(prj.Admins))
		}
		prj.Threshold = n
		return nil, nil

	case op.AdminWithdraw != nil:
		o := op.AdminWithdraw
		if err := e.ctrl.AdminWithdraw(db, projectID, projAddr, o.Recipient, *o.Amount); err != nil {
			return nil, err
		}
		return poolTag(&project.PoolRecord{
			ProjectId: projectID,
			Ticker:    o.Amount.Ticker,
			Amount:    o.Amount,
			Op:        "admin_withdraw",
			Recipient: o.Recipient,
		})

	case op.WithdrawFromPool != nil:
		o := op.WithdrawFromPool
		if err := e.ctrl.WithdrawFromPool(db, projectID, projAddr, o.Recipient, *o.Amount); err != nil {
			return nil, err
		}
		return poolTag(&project.PoolRecord{
			ProjectId: projectID,
			Ticker:    o.Amount.Ticker,
			Amount:    o.Amount,
			Op:        "pool_withdraw",
			Recipient: o.Recipient,
		})

	case op.Pause != nil:
		prj.Paused = true
		return nil, nil

	case op.Unpause != nil:
		prj.Paused = false
		return nil, nil

	case op.EmergencyWithdraw != nil:
		o := op.EmergencyWithdraw
		swept, err := e.ctrl.EmergencyWithdraw(db, projectID, projAddr, o.Recipient, o.Ticker)
		if err != nil {
			return nil, err
		}
		return poolTag(&project.PoolRecord{
			ProjectId: projectID,
			Ticker:    o.Ticker,
			Amount:    &swept,
			Op:        "emergency_withdraw",
			Recipient: o.Recipient,
		})
	}
	return nil, errors.Wrap(errors.ErrEmpty, "no operation")
}

func poolTag(rec *project.PoolRecord) ([]common.KVPair, error) {
	tag, err := project.PoolRecordTag(rec)
	if err != nil {
		return nil, err
	}
	return []common.KVPair{tag}, nil
}
