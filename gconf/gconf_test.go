package gconf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

type testConf struct {
	Rate uint32 `json:"rate"`
}

func (c *testConf) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *testConf) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *testConf) Validate() error {
	if c.Rate > 10000 {
		return errors.Wrap(errors.ErrInput, "rate over 100%")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	require.NoError(t, Save(db, "ledger", &testConf{Rate: 25}))

	var got testConf
	require.NoError(t, Load(db, "ledger", &got))
	assert.Equal(t, uint32(25), got.Rate)

	// update is visible on the next load
	require.NoError(t, Save(db, "ledger", &testConf{Rate: 50}))
	require.NoError(t, Load(db, "ledger", &got))
	assert.Equal(t, uint32(50), got.Rate)
}

func TestSaveValidates(t *testing.T) {
	db := store.MemStore()
	err := Save(db, "ledger", &testConf{Rate: 20000})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got testConf
	err := Load(db, "ledger", &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitConfig(t *testing.T) {
	db := store.MemStore()
	opts := custody.Options{
		"conf": json.RawMessage(`{"ledger": {"rate": 30}}`),
	}

	var conf testConf
	require.NoError(t, InitConfig(db, opts, "ledger", &conf))

	var got testConf
	require.NoError(t, Load(db, "ledger", &got))
	assert.Equal(t, uint32(30), got.Rate)
}
