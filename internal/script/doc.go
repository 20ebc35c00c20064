// Package script runs YAML play scripts against a session.Store.
//
// A script is a list of steps, each naming a store action and its arguments:
//
//	name: first-morning
//	steps:
//	  - action: start_game
//	  - action: go_shopping
//	  - action: buy_from_shop
//	    args:
//	      items:
//	        - {ingredient_name: 卵, quantity: 2}
//	  - action: cook_confirm
//	    args: {ingredients: [卵]}
//	  - action: advance_phase
//
// Scripts are checked against an embedded CUE schema before they run, so a
// typo in an action name or argument is reported with its line instead of
// surfacing as an authority rejection halfway through a session.
//
// Dispatch maps one step onto the matching Store method. The interactive play
// command and the scenario harness use the same dispatcher.
package script
