// Package session owns the single active play session on the client side.
//
// A Store holds the session id, the latest GameState snapshot returned by the
// remote authority, transient per-action result caches, and catalog snapshots
// (shop, online shop, recipes). It exposes one method per player action. Every
// method follows the same sequence:
//
//  1. check the precondition (an active session, or none for StartGame)
//  2. mark busy and clear the error slot
//  3. call the Remote
//  4. on success replace the affected state and caches wholesale;
//     on failure record the message and leave everything else untouched
//  5. clear busy
//
// Methods never return errors. Failures land in the error slot read through
// Err or View, and the previous snapshot stays renderable.
//
// # Concurrency
//
// The Store does not serialise actions. The internal mutex only guards field
// access and is never held across a remote call, so two actions issued without
// waiting for each other both reach the authority, and whichever response
// arrives last decides the final state and caches. There is one busy flag for
// the whole Store; the first action to finish clears it even if another is
// still in flight. Callers that need ordering must wait for each action before
// issuing the next.
//
// The one ordering rule the Store does enforce is session identity: a response
// for a session that has since been reset or replaced is discarded, so the
// session id and the snapshot are always both set or both unset.
//
// # Snapshots
//
// GameState values are shared, not copied. They are replaced, never edited,
// and callers must treat them as read-only.
package session
