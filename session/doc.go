// Package session coordinates FROST threshold signing ceremonies. It owns
// the protocol state (who has committed, whether the signing package
// exists, which shares arrived) and leaves all cryptography to an
// [Engine]. The ciphersuite package provides engines over several curves.
//
// # Key Generation
//
// A [TrustedDealer] produces the [PublicKeyPackage] and one [SecretShare]
// per participant. Each participant verifies its share:
//
//	dealer, _ := session.NewTrustedDealer(engine, cfg)
//	keys, _ := dealer.GenerateKeys(ctx)
//	kp, err := session.VerifyAndGetKeyPackage(ctx, engine, keys.SecretShares[myID])
//
// # Signing
//
// One [Coordinator] exists per message. Participants commit, the
// coordinator freezes the commitments into a [Round2Configuration], the
// participants sign and the coordinator aggregates:
//
//	coord, _ := session.NewNonSigningCoordinator(engine, cfg, keys.PublicKeyPackage, msg)
//
//	// on each signer
//	c, _ := p.Commit(ctx)
//	coord.ReceiveCommitment(ctx, c)
//
//	round2, _ := coord.CreateSigningPackage(ctx)
//
//	// on each signer
//	p.Receive(round2)
//	share, _ := p.Sign(ctx)
//	coord.ReceiveSignatureShare(ctx, share)
//
//	sig, _ := coord.Aggregate(ctx)
//	err := coord.Verify(ctx, sig)
//
// Each commitment can be signed with once. Calling Sign a second time
// returns [ErrNonceConsumed]; a new Commit starts over.
//
// A [SigningCoordinator] plays both roles, contributing its own commitment
// and share. [SignLocally] runs the whole flow in one process.
//
// # Concurrency
//
// Every coordinator operation runs under one lock, engine calls included,
// so contributions may arrive from any number of goroutines. There are no
// timeouts and no abort: a stalled session is simply dropped.
//
// # Transport Agnostic
//
// This package does not handle network communication. You are responsible
// for distributing messages between participants using your preferred
// transport. Payloads expose their encodings via Bytes.
package session
