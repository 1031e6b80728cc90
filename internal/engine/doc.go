// Package engine implements the riddle run state machine.
//
// A Run walks one sequence through its phases:
//
//	intro(i) -> main(s) -> secondChance(s) -> explanation(s) -> context(s) -> main(s+1) ... -> done
//
// Correct answers skip straight to the next main riddle (through the step's
// context slide when it has one). Wrong main answers drop to the step's
// second-chance question; a wrong second chance shows the explanation.
//
// ARCHITECTURE:
//
// Single Writer:
// Every command and every scheduled callback takes the run's mutex, so state
// changes are applied one at a time in a total order. Each applied change is
// stamped with a logical seq from Clock for transcripts and observers.
//
// Deferred Feedback:
// After a valid answer the score is applied at once, but the phase change
// waits for the feedback delay so the player can read the verdict. The
// pending change lives in a schedule.Slot; Restart and Close cancel it and
// bump the run's generation so a timer that already fired is ignored.
//
// Statistics:
// Entering done reports the run to the StatsRecorder exactly once. Restart
// arms it again.
//
// Collaborators (StatsRecorder, Observer) are called after the mutex is
// released, in the order their events happened.
package engine
