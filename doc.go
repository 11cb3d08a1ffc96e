// Package participant issues and persists a stable per-device identifier
// for experiment participants, so that the same participant is recognised
// across reloads, sessions and experiment phases.
//
// The identifier is a version 7 UUID stored under {prefix}.browser_id
// together with {prefix}.created_at and, after a regeneration,
// {prefix}.updated_at. Per-application attributes live under
// {prefix}.{application}.{field}. The key layout is shared with the web,
// mobile and desktop clients so servers can treat them interchangeably.
//
//	srv, _ := participant.New("exp1", participant.WithPrefix("p"))
//	id, _ := srv.ID(ctx)
//	_ = srv.SetAttribute(ctx, "condition", "A")
//
// A validator can be supplied to ask a server whether a candidate is
// already registered; up to MaxRetries candidates are tried.
//
// This is not a distributed identity system and proves nothing
// cryptographically. It only keeps a client-held token.
package participant
