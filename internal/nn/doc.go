// Package nn implements the numeric core of sprout: scalar activation
// functions, a dense feedforward Network trained one example at a time with
// hand-derived backpropagation, and the scalar RecurrentCell used by the
// sequence model.
//
// Nothing in this package is safe for concurrent use; each Network and
// RecurrentCell is expected to have a single owner.
package nn
