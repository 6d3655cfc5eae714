/*
Package graph implements the workflow GraphModel: the exclusive owner of nodes and
connections.

The model enforces the structural invariants of the editor (unique ids, no self-loops,
cascade removal of connections touching a deleted node) and supports a lossless
Serialize/Deserialize round trip through domain.Document. Mutations on unknown ids
are idempotent no-ops reported through a boolean result, never errors.

Every successful mutation is announced to subscribed listeners so that rendering,
streaming and metrics stay read-only consumers of the model.

A Model is not safe for concurrent use.
*/
package graph
