// Package harness runs YAML scenarios against a real session.Store.
//
// A scenario describes three things:
//
//   - remote: canned authority replies, queued per route
//   - flow: store actions to perform, each optionally with an expectation
//   - assertions: checks over the journal trace, the final store view and
//     the requests the authority received
//
// Each scenario runs in isolation: a fresh fake authority (testutil.Remote),
// a fresh in-memory journal and a fresh Store. Journal sequence numbers come
// from testutil.DeterministicClock and the run id is fixed, so the trace is
// byte-for-byte reproducible and can be compared against a golden file with
// RunWithGolden.
//
// # Scenario Format
//
//	name: cook_failure_keeps_state
//	description: a rejected cook leaves the snapshot untouched
//	run_id: test-run-cook
//	remote:
//	  - method: POST
//	    path: /api/game/start
//	    body: {session_id: abc, state: {session_id: abc, day: 1}}
//	flow:
//	  - action: start_game
//	    expect: {ok: true}
//	assertions:
//	  - type: final_view
//	    expect:
//	      state.day: 1
//
// Flow steps use the same action names and args as play scripts; see
// script.Dispatch.
package harness
