// Package conflict decides what happens when a planned destination is already
// occupied. Decisions come from a Prompter strategy so the interactive
// terminal flow and scripted test flows share one resolution path, and scoped
// answers are remembered for the rest of the run.
package conflict
