package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfiguration(t *testing.T) {
	tests := []struct {
		min, max uint16
		ok       bool
	}{
		{2, 2, true},
		{2, 3, true},
		{5, 9, true},
		{0, 3, false},
		{1, 3, false},
		{3, 2, false},
		{2, 1, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-of-%d", tt.min, tt.max), func(t *testing.T) {
			cfg, err := NewConfiguration(tt.min, tt.max, nil)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.min, cfg.MinSigners())
			assert.Equal(t, tt.max, cfg.MaxSigners())
			_, hasSecret := cfg.Secret()
			assert.False(t, hasSecret)
		})
	}
}

func TestConfigurationSecret(t *testing.T) {
	secret := []byte{0xde, 0xad, 0xbe, 0xef}
	cfg, err := NewConfiguration(2, 3, secret)
	require.NoError(t, err)

	secret[0] = 0
	got, ok := cfg.Secret()
	require.True(t, ok)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got)

	got[1] = 0
	again, _ := cfg.Secret()
	assert.Equal(t, byte(0xad), again[1])

	for _, s := range []string{cfg.String(), fmt.Sprintf("%v", cfg), fmt.Sprintf("%#v", cfg)} {
		assert.NotContains(t, s, "deadbeef")
		assert.Contains(t, s, redacted)
	}
}

func TestSecretMaterialRedacted(t *testing.T) {
	id := testID(7)
	for _, v := range []fmt.Stringer{
		NewSecretShare(id, []byte("TOPSECRET")),
		NewKeyPackage(id, []byte("TOPSECRET")),
		NewSigningNonces(id, []byte("TOPSECRET")),
	} {
		for _, s := range []string{fmt.Sprintf("%v", v), fmt.Sprintf("%+v", v), fmt.Sprintf("%#v", v)} {
			assert.NotContains(t, s, "TOPSECRET")
			assert.Contains(t, s, id.String())
		}
	}
}

func TestIdentifierSemantics(t *testing.T) {
	a := NewIdentifier([]byte{0, 1})
	b := NewIdentifier([]byte{0, 1})
	c := NewIdentifier([]byte{0, 2})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, a.Less(c))
	assert.False(t, c.Less(a))
	assert.Equal(t, "0001", a.String())
	assert.True(t, Identifier{}.IsZero())
	assert.False(t, a.IsZero())

	m := map[Identifier]int{a: 1}
	m[b]++
	assert.Equal(t, 2, m[a])

	ids := []Identifier{c, a, NewIdentifier([]byte{0, 0, 1})}
	sortIdentifiers(ids)
	assert.Equal(t, []Identifier{NewIdentifier([]byte{0, 0, 1}), a, c}, ids)
}

func TestPayloadsAreCopied(t *testing.T) {
	raw := []byte("payload")
	msg := NewMessage(raw)
	raw[0] = 'X'
	assert.Equal(t, []byte("payload"), msg.Bytes())

	out := msg.Bytes()
	out[0] = 'Y'
	assert.Equal(t, []byte("payload"), msg.Bytes())

	r := NewRandomizer([]byte("alpha"))
	cfg := NewRound2Configuration(NewSigningPackage([]byte("pkg")), &r)
	r = NewRandomizer([]byte("other"))
	got, ok := cfg.Randomizer()
	require.True(t, ok)
	assert.Equal(t, []byte("alpha"), got.Bytes())
}

func TestPublicKeyPackage(t *testing.T) {
	shares := map[Identifier]VerifyingShare{
		testID(3): NewVerifyingShare([]byte("c")),
		testID(1): NewVerifyingShare([]byte("a")),
	}
	pkp := NewPublicKeyPackage([]byte("Y"), shares)
	delete(shares, testID(1))

	assert.Equal(t, 2, pkp.Len())
	assert.Equal(t, []Identifier{testID(1), testID(3)}, pkp.Participants())
	assert.True(t, pkp.Contains(testID(3)))
	assert.False(t, pkp.Contains(testID(2)))
	vs, ok := pkp.VerifyingShare(testID(1))
	require.True(t, ok)
	assert.Equal(t, []byte("a"), vs.Bytes())
	assert.Equal(t, []byte("Y"), pkp.VerifyingKey())
}

func TestTrustedDealer(t *testing.T) {
	engine := newFakeEngine(true)
	cfg, err := NewConfiguration(2, 3, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = NewTrustedDealer(nil, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = NewTrustedDealer(engine, Configuration{})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	dealer, err := NewTrustedDealer(engine, cfg)
	require.NoError(t, err)

	keys, err := dealer.GenerateKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, keys.PublicKeyPackage.Len())
	assert.Len(t, keys.SecretShares, 3)
	for id, share := range keys.SecretShares {
		kp, err := VerifyAndGetKeyPackage(ctx, engine, share)
		require.NoError(t, err)
		assert.Equal(t, id, kp.Identifier())
	}

	t.Run("CustomIdentifiers", func(t *testing.T) {
		ids := []Identifier{testID(10), testID(20), testID(30)}
		keys, err := dealer.GenerateKeysWithIdentifiers(ctx, ids)
		require.NoError(t, err)
		assert.Equal(t, ids, keys.PublicKeyPackage.Participants())
	})

	t.Run("WrongCount", func(t *testing.T) {
		_, err := dealer.GenerateKeysWithIdentifiers(ctx, []Identifier{testID(1), testID(2)})
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := dealer.GenerateKeysWithIdentifiers(ctx, []Identifier{testID(1), testID(2), testID(1)})
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})

	t.Run("Zero", func(t *testing.T) {
		_, err := dealer.GenerateKeysWithIdentifiers(ctx, []Identifier{testID(1), {}, testID(3)})
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})

	t.Run("TamperedShare", func(t *testing.T) {
		share := keys.SecretShares[testID(1)]
		tampered := NewSecretShare(share.Identifier(), append(share.Bytes(), 0xff))
		_, err := VerifyAndGetKeyPackage(ctx, engine, tampered)
		var ee *EngineError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, KindKeyVerification, ee.Kind)
	})

	t.Run("ZeroIdentifierFromEngine", func(t *testing.T) {
		_, err := engine.IdentifierFromUint(0)
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})
}

func TestEngineFailureClassification(t *testing.T) {
	assert.NoError(t, engineFailure(KindAggregation, nil))

	plain := errors.New("bad share")
	err := engineFailure(KindAggregation, plain)
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindAggregation, ee.Kind)
	assert.ErrorIs(t, err, plain)
	assert.Equal(t, "session: aggregation failed: bad share", err.Error())

	own := &EngineError{Kind: KindAggregation, Detail: "invalid shares", Culprits: []Identifier{testID(2)}}
	wrapped := engineFailure(KindVerification, fmt.Errorf("engine: %w", own))
	require.ErrorAs(t, wrapped, &ee)
	assert.Same(t, own, ee)
	assert.Contains(t, wrapped.Error(), "culprits: 0002")
}

func TestRoundAndPhaseNames(t *testing.T) {
	assert.Equal(t, "commitment", RoundCommitment.String())
	assert.Equal(t, "signature_share", RoundSignatureShare.String())
	assert.Equal(t, "collecting_commitments", PhaseCollectingCommitments.String())
	assert.Equal(t, "verified", PhaseVerified.String())
	assert.Equal(t, "key verification", KindKeyVerification.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
