// Package circulation holds the business errors shared by the borrow and
// return use cases.
//
// The use cases themselves live in feature slices under command/ and
// query/, one package per use case, each with its own command type, pure
// decision function, and handler wiring storage and cache together.
package circulation
