package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

func TestConfigurationValidate(t *testing.T) {
	cases := map[string]struct {
		conf    Configuration
		wantErr *errors.Error
	}{
		"valid without withdrawal fee": {
			conf: Configuration{Owner: owner, FeeVault: vault, FeeRateBps: 100},
		},
		"valid with native withdrawal fee": {
			conf: Configuration{
				Owner:         owner,
				FeeVault:      vault,
				WithdrawalFee: coin.NewCoinp(10, coin.NativeTicker),
			},
		},
		"fee rate over 100 percent": {
			conf:    Configuration{Owner: owner, FeeVault: vault, FeeRateBps: 10001},
			wantErr: errors.ErrInput,
		},
		"withdrawal fee in a token currency": {
			conf: Configuration{
				Owner:         owner,
				FeeVault:      vault,
				WithdrawalFee: coin.NewCoinp(10, "IOV"),
			},
			wantErr: errors.ErrCurrency,
		},
		"negative withdrawal fee": {
			conf: Configuration{
				Owner:         owner,
				FeeVault:      vault,
				WithdrawalFee: coin.NewCoinp(-1, coin.NativeTicker),
			},
			wantErr: errors.ErrAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err))
			}
		})
	}
}
