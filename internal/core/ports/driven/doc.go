// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The retrieval core treats everything behind these ports as an external
// collaborator: embedding generation, the vector index, the chunk and
// document metadata store, and LLM generation. Constructors in
// internal/core/services take these interfaces as parameters so tests can
// substitute them without patching globals.
package driven
