// Package reviews is the opaque review subsystem boundary.
//
// Reviews are stored and served as-is; the inventory core never inspects
// them beyond attaching them to book listings. Store is the narrow
// contract the rest of the system programs against; MemoryStore is the
// bundled implementation.
package reviews
