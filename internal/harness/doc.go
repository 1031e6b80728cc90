// Package harness runs scripted play-throughs against the controller and
// compares their transcripts with golden files.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: perfect_first_step
//	description: "A correct first answer moves to the context slide"
//	sequence: sequences/short.yaml   # optional, defaults to the built-in sequence
//	run_token: run-perfect           # optional, defaults to "run-scenario"
//	flow:
//	  - command: select
//	    id: seq-1
//	  - command: begin
//	  - command: answer
//	    answer: { selected: [0] }
//	    expect:
//	      correct: true
//	      phase: context
//	      score: 8
//	assertions:
//	  - type: final_phase
//	    phase: context
//	  - type: trace_count
//	    command: answer
//	    count: 1
//
// # Commands
//
// select, edit, create, leave, advance, back, begin, answer, skip,
// continue, continue_explanation, continue_context, restart and settle.
// They map one to one onto app.Controller methods.
//
// # Assertion Types
//
//   - trace_contains: a command appears in the trace, optionally in a phase
//   - trace_order: commands appear in the given order
//   - trace_count: a command appears exactly N times
//   - final_phase: the run ends in the given phase
//   - final_score: the run ends with the given score
//   - library_stats: an entry's statistics after the flow
//
// # Deterministic Testing
//
// Runs use an in-memory store, a zero feedback delay and fixed run tokens,
// so transcripts are byte-identical between runs.
package harness
