/*
Package ports defines the driven ports (interfaces) of the workflow editor.

The editor core only ever writes documents. Reading them back is a concern of the
tooling built around it (CLI, HTTP inspection), so it is split into separate interfaces
that adapters implement when they can.

# Key Interfaces

  - DocumentStore: persists a serialized workflow document under a key.
  - DocumentReader: loads and lists documents previously saved.
  - DocumentDeleter: removes a document.
  - DistributedLocker: guards concurrent saves to the same key across processes.
*/
package ports
