// Package viewport maps between screen space and the canonical space node positions live in.
//
// A Transform holds a pan offset and a zoom factor clamped into [MinZoom, MaxZoom]. The
// geometry helpers compute where ports sit and how connections are drawn for a given view.
package viewport
