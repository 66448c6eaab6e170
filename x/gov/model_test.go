package gov

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
)

func TestOperationValidate(t *testing.T) {
	addr := custodytest.NewCondition(1).Address()

	cases := map[string]struct {
		op      *Operation
		wantErr *errors.Error
	}{
		"add admin": {
			op: &Operation{AddAdmin: &AddAdminOp{Admin: addr}},
		},
		"pause": {
			op: &Operation{Pause: &PauseOp{}},
		},
		"no variant": {
			op:      &Operation{},
			wantErr: errors.ErrEmpty,
		},
		"nil operation": {
			op:      nil,
			wantErr: errors.ErrEmpty,
		},
		"two variants": {
			op: &Operation{
				Pause:   &PauseOp{},
				Unpause: &UnpauseOp{},
			},
			wantErr: errors.ErrInput,
		},
		"zero threshold": {
			op:      &Operation{ChangeThreshold: &ChangeThresholdOp{}},
			wantErr: errors.ErrInput,
		},
		"withdraw without amount": {
			op:      &Operation{AdminWithdraw: &AdminWithdrawOp{Recipient: addr}},
			wantErr: errors.ErrEmpty,
		},
		"withdraw zero amount": {
			op: &Operation{AdminWithdraw: &AdminWithdrawOp{
				Amount:    coin.NewCoinp(0, "IOV"),
				Recipient: addr,
			}},
			wantErr: errors.ErrAmount,
		},
		"emergency with bad ticker": {
			op: &Operation{EmergencyWithdraw: &EmergencyWithdrawOp{
				Ticker:    "iov",
				Recipient: addr,
			}},
			wantErr: errors.ErrCurrency,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.op.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}
