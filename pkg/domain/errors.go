package domain

import "errors"

// ErrUnknownNodeType is returned when a node type tag is not part of the catalog.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrSelfConnection is returned when a connection would start and end at the same node.
var ErrSelfConnection = errors.New("connection source and target must differ")

// ErrDuplicateID is returned when a document contains two entities with the same id.
var ErrDuplicateID = errors.New("duplicate id")

// ErrNoPendingConnection is returned when a connection is completed without having been started.
var ErrNoPendingConnection = errors.New("no pending connection")

// ErrMenuClosed is returned when a menu entry is picked while the creation menu is closed.
var ErrMenuClosed = errors.New("creation menu is not open")

// ErrUnknownGesture is returned when a gesture kind is not recognized.
var ErrUnknownGesture = errors.New("unknown gesture")

// ErrNotImplemented is returned by workflow execution, which has no engine behind it.
var ErrNotImplemented = errors.New("workflow execution is not implemented")

// ErrDocumentNotFound is returned when a document key cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// ErrNodeNotFound is returned when a gesture targets a node that does not exist.
var ErrNodeNotFound = errors.New("node not found")

// ErrNoStore is returned when saving without a configured document store.
var ErrNoStore = errors.New("no document store configured")
