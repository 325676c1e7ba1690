package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantLifecycle(t *testing.T) {
	fx := newFixture(t, 2, 3, true)
	ctx := context.Background()
	p := fx.participant(t, 0)
	cfg := NewRound2Configuration(NewSigningPackage([]byte("pkg")), &Randomizer{})

	_, err := p.Sign(ctx)
	assert.ErrorIs(t, err, ErrNotCommitted)
	assert.ErrorIs(t, p.Receive(cfg), ErrNotCommitted)
	assert.False(t, p.IsConsumed())

	_, err = p.Commit(ctx)
	require.NoError(t, err)
	_, err = p.Sign(ctx)
	assert.ErrorIs(t, err, ErrRound2ConfigMissing)
	assert.False(t, p.IsConsumed(), "a refused Sign must not consume the nonces")

	require.NoError(t, p.Receive(cfg))
	assert.ErrorIs(t, p.Receive(cfg), ErrRound2ConfigAlreadyReceived)

	share, err := p.Sign(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.Identifier(), share.Identifier())
	assert.True(t, p.IsConsumed())

	_, err = p.Sign(ctx)
	assert.ErrorIs(t, err, ErrNonceConsumed)
	assert.Equal(t, 1, fx.engine.callCount("ComputeSignatureShare"))
}

func TestParticipantRecommit(t *testing.T) {
	fx := newFixture(t, 2, 3, true)
	ctx := context.Background()
	p := fx.participant(t, 1)
	cfg := NewRound2Configuration(NewSigningPackage([]byte("pkg")), &Randomizer{})

	first, err := p.Commit(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Receive(cfg))
	_, err = p.Sign(ctx)
	require.NoError(t, err)

	second, err := p.Commit(ctx)
	require.NoError(t, err)
	assert.False(t, first.Equal(second))
	assert.False(t, p.IsConsumed())

	// The previous round-2 configuration is discarded.
	_, err = p.Sign(ctx)
	assert.ErrorIs(t, err, ErrRound2ConfigMissing)
	require.NoError(t, p.Receive(cfg))
	_, err = p.Sign(ctx)
	assert.NoError(t, err)
}

func TestParticipantFailedSignConsumesNonces(t *testing.T) {
	fx := newFixture(t, 2, 3, true)
	ctx := context.Background()
	p := fx.participant(t, 0)

	_, err := p.Commit(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Receive(NewRound2Configuration(NewSigningPackage([]byte("pkg")), &Randomizer{})))

	boom := errors.New("hsm unavailable")
	fx.engine.failShare = boom
	_, err = p.Sign(ctx)
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindSignatureShare, ee.Kind)
	assert.ErrorIs(t, err, boom)

	fx.engine.failShare = nil
	_, err = p.Sign(ctx)
	assert.ErrorIs(t, err, ErrNonceConsumed)
}

func TestParticipantCancelledSign(t *testing.T) {
	fx := newFixture(t, 2, 3, true)
	p := fx.participant(t, 0)
	_, err := p.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Receive(NewRound2Configuration(NewSigningPackage([]byte("pkg")), &Randomizer{})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Sign(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, p.IsConsumed())
	assert.Zero(t, fx.engine.callCount("ComputeSignatureShare"))
}

func TestNewParticipantValidation(t *testing.T) {
	fx := newFixture(t, 2, 3, true)

	_, err := NewParticipant(nil, fx.keyPackage(t, 0), fx.keys.PublicKeyPackage)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewParticipant(fx.engine, NewKeyPackage(testID(42), []byte("kp")), fx.keys.PublicKeyPackage)
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}
