// Package bake implements the guided-bake state machine.
//
// A bake log tracks one execution of a recipe through the statuses active,
// paused, completed, and abandoned. Step logs record each executed step with
// the step name, order, and planned duration copied from the recipe at the
// moment the step opens, so later recipe edits never rewrite history. At most
// one step log per bake is open (no end timestamp) at a time.
//
// Session is the entry point. Every mutating operation runs in a single
// transaction; the close of a step is guarded by a conditional update so two
// clients racing to complete the same step cannot both win.
package bake
