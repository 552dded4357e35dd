// Package recipes stores recipe definitions and reads the step snapshots
// consumed by guided bakes.
//
// A recipe is visible to a user when they own it, when it is flagged as a
// base recipe, or when it has no owner. Reader resolves visible steps in
// order; Store covers the CRUD surface for recipes and the ingredient
// catalog.
package recipes
