// Package harness provides conformance testing for the verification
// engine.
//
// The harness loads scenario documents, runs their inline pacts through
// the real engine with canned handlers, and validates the run outcome
// against the scenario's expect clause.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	pact:
//	  consumer: web-app
//	  provider: order-service
//	  interactions:
//	    - description: "an order created event"
//	      payload: { order_id: o-1, total: 2500 }
//	      metadata: { content-type: application/json }
//	handlers:
//	  - description: "an order created event"
//	    returns:
//	      payload: { order_id: o-1, total: 2500 }
//	      metadata: { content-type: application/json }
//	expect:
//	  success: true
//
// Handlers may also declare `error: "message"` or `panic: "message"`
// to exercise failure isolation, and the expect clause may list the
// ledger keys a failing run must record.
//
// # Deterministic Testing
//
// All scenarios execute with a fixed run token (from scenario.run_token
// or the default "test-run-default") and an in-memory SQLite history
// store, isolated per scenario. This ensures identical traces across
// runs for golden file comparison.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/passing_message.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute with the harness:
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Passed() {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
