package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/frostcoord/ciphersuite"
	"github.com/f3rmion/frostcoord/registry"
	"github.com/f3rmion/frostcoord/session"
)

func newCoordinator(t *testing.T, opts ...session.CoordinatorOption) *session.NonSigningCoordinator {
	t.Helper()
	cfg, err := session.NewConfiguration(2, 3, nil)
	require.NoError(t, err)
	engine := ciphersuite.New(ciphersuite.BabyJubjubSHA256)
	c, err := session.NewNonSigningCoordinator(engine, cfg, session.PublicKeyPackage{}, session.NewMessage([]byte("m")), opts...)
	require.NoError(t, err)
	return c
}

func TestRegisterGetRemove(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)

	c := newCoordinator(t)
	id := reg.Register(c)
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get(id)
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = reg.Get(uuid.New())
	assert.ErrorIs(t, err, registry.ErrUnknownSession)

	assert.True(t, reg.Remove(id))
	assert.False(t, reg.Remove(id))
	_, err = reg.Get(id)
	assert.ErrorIs(t, err, registry.ErrUnknownSession)
	assert.Zero(t, reg.Len())
}

func TestInvalidOptions(t *testing.T) {
	_, err := registry.New(registry.WithCapacity(0))
	assert.Error(t, err)
	_, err = registry.New(registry.WithTTL(-time.Second))
	assert.Error(t, err)
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	reg, err := registry.New(registry.WithCapacity(2))
	require.NoError(t, err)

	a := reg.Register(newCoordinator(t))
	b := reg.Register(newCoordinator(t))
	_, err = reg.Get(a)
	require.NoError(t, err)

	c := reg.Register(newCoordinator(t))
	assert.Equal(t, 2, reg.Len())

	_, err = reg.Get(b)
	assert.ErrorIs(t, err, registry.ErrUnknownSession)
	_, err = reg.Get(a)
	assert.NoError(t, err)
	_, err = reg.Get(c)
	assert.NoError(t, err)
}

func TestIdleExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, err := registry.New(registry.WithTTL(time.Minute), registry.WithClock(clock))
	require.NoError(t, err)

	idle := reg.Register(newCoordinator(t))
	busy := reg.Register(newCoordinator(t))

	clock.Advance(40 * time.Second)
	_, err = reg.Get(busy)
	require.NoError(t, err)

	clock.Advance(40 * time.Second)
	_, err = reg.Get(idle)
	assert.ErrorIs(t, err, registry.ErrSessionExpired)
	_, err = reg.Get(idle)
	assert.ErrorIs(t, err, registry.ErrUnknownSession)
	_, err = reg.Get(busy)
	assert.NoError(t, err)
}

func TestSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, err := registry.New(registry.WithTTL(time.Minute), registry.WithClock(clock))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		reg.Register(newCoordinator(t))
	}
	clock.Advance(30 * time.Second)
	fresh := reg.Register(newCoordinator(t))

	assert.Zero(t, reg.Sweep())
	clock.Advance(45 * time.Second)
	assert.Equal(t, 3, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
	_, err = reg.Get(fresh)
	assert.NoError(t, err)
}

func TestSweepWithoutTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, err := registry.New(registry.WithClock(clock))
	require.NoError(t, err)
	reg.Register(newCoordinator(t))

	clock.Advance(24 * time.Hour)
	assert.Zero(t, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m, err := registry.NewMetrics(promReg)
	require.NoError(t, err)
	_, err = registry.NewMetrics(promReg)
	assert.Error(t, err, "collectors register once")

	clock := clockwork.NewFakeClock()
	reg, err := registry.New(registry.WithCapacity(2), registry.WithTTL(time.Minute), registry.WithClock(clock), registry.WithMetrics(m))
	require.NoError(t, err)

	a := reg.Register(newCoordinator(t))
	reg.Register(newCoordinator(t))
	reg.Register(newCoordinator(t))
	reg.Remove(a)

	clock.Advance(2 * time.Minute)
	reg.Sweep()

	count, err := testutil.GatherAndCount(promReg, "frostcoord_sessions_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.Zero(t, testutil.ToFloat64(m.Active()))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Sessions("registered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions("evicted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Sessions("expired")))
}

func TestMetricsObserveSigning(t *testing.T) {
	ctx := context.Background()
	m, err := registry.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	engine := ciphersuite.New(ciphersuite.Ed25519SHA256)
	cfg, err := session.NewConfiguration(2, 3, nil)
	require.NoError(t, err)
	dealer, err := session.NewTrustedDealer(engine, cfg)
	require.NoError(t, err)
	keys, err := dealer.GenerateKeys(ctx)
	require.NoError(t, err)
	var kps []session.KeyPackage
	for _, id := range keys.PublicKeyPackage.Participants()[:2] {
		kp, err := session.VerifyAndGetKeyPackage(ctx, engine, keys.SecretShares[id])
		require.NoError(t, err)
		kps = append(kps, kp)
	}

	_, _, err = session.SignLocally(ctx, engine, cfg, keys.PublicKeyPackage, kps, session.NewMessage([]byte("observed")), session.WithObserver(m))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Contributions("commitment", "accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Contributions("signature_share", "accepted")))
	for _, phase := range []session.Phase{session.PhasePackageCreated, session.PhaseCollectingShares, session.PhaseAggregated, session.PhaseVerified} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions(phase)), phase.String())
	}

	coord := newCoordinator(t, session.WithObserver(m))
	c := session.NewSigningCommitments(keys.PublicKeyPackage.Participants()[0], []byte("c"))
	require.NoError(t, coord.ReceiveCommitment(ctx, c))
	require.Error(t, coord.ReceiveCommitment(ctx, c))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Contributions("commitment", session.ReasonDuplicate)))
}
