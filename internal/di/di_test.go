package di

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goHederad/internal/config"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

func TestContainerBuildsOnce(t *testing.T) {
	c := New()
	var builds int32
	c.RegisterBuilder("dep", func(*Container) (interface{}, error) {
		atomic.AddInt32(&builds, 1)
		return "dep", nil
	})
	c.RegisterBuilder("svc", func(c *Container) (interface{}, error) {
		dep, err := c.Get("dep")
		if err != nil {
			return nil, err
		}
		return dep.(string) + "+svc", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc, err := c.Get("svc")
			assert.NoError(t, err)
			assert.Equal(t, "dep+svc", svc)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	assert.Equal(t, []string{"dep", "svc"}, c.ServiceNames())
}

func TestContainerMissingAndFailingServices(t *testing.T) {
	c := New()
	_, err := c.Get("nope")
	require.ErrorIs(t, err, ErrServiceNotFound)
	assert.Panics(t, func() { c.MustGet("nope") })

	boom := errors.New("boom")
	c.RegisterBuilder("bad", func(*Container) (interface{}, error) { return nil, boom })
	_, err = c.Get("bad")
	require.ErrorIs(t, err, boom)
	assert.False(t, c.Built("bad"))
	assert.True(t, c.Has("bad"))

	c.Clear()
	assert.False(t, c.Has("bad"))
}

func TestProviderWiresMarshal(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "memory"

	p := NewProvider(New(), cfg, prometheus.NewRegistry())
	require.NoError(t, p.RegisterAll())
	t.Cleanup(func() { _ = p.Close() })

	schedules, err := p.Schedules()
	require.NoError(t, err)
	fee, err := customfee.NewFixedFee(7, types.Hbar, types.AccountID{Num: 98}, false)
	require.NoError(t, err)
	token := types.TokenID{Num: 5001}
	meta := customfee.NewMeta(token, types.AccountID{Num: 2}, customfee.FungibleCommon, []*customfee.CustomFee{fee})
	require.NoError(t, schedules.Put(context.Background(), meta))

	m, err := p.Marshal()
	require.NoError(t, err)
	assert.Equal(t, cfg.ToValidationProps(), m.Props())

	op := types.TransferInstruction{TokenTransfers: []types.TokenTransferList{{
		Token: token,
		Transfers: []types.AccountAmount{
			{Account: types.RefByID(types.AccountID{Num: 1002}), Amount: -10},
			{Account: types.RefByID(types.AccountID{Num: 1003}), Amount: 10},
		},
	}}}
	it, err := m.Unmarshal(context.Background(), op, types.AccountID{Num: 1001})
	require.NoError(t, err)
	require.Equal(t, status.OK, it.Code())
	assert.Len(t, it.AssessedFees, 1)
}

func TestProviderCloseWithoutStorage(t *testing.T) {
	p := NewProvider(New(), config.Default(), prometheus.NewRegistry())
	require.NoError(t, p.RegisterAll())
	require.NoError(t, p.Close())
}
