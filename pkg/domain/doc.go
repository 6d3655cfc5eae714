/*
Package domain contains the core domain models of the flowcanvas workflow editor.

It defines the entities the editor manipulates: typed Nodes placed in canonical space,
directed Connections between them, the static NodeCatalog, and the persisted Document
shape. This package is kept pure and free of I/O, following Hexagonal Architecture
principles; the graph model, viewport and interaction controller build on top of it.

# Key Entities

  - NodeTypeDescriptor: catalog entry describing one of the seven node kinds.
  - Node: a typed, positioned vertex representing one workflow step.
  - Connection: a directed edge from one node to another.
  - Document: the JSON shape written to a DocumentStore.
  - GraphEvent: notification emitted after every successful graph mutation.
*/
package domain
