// Package component defines the canonical component model for generative
// UI surfaces: the closed set of component kinds, the id-indexed tree
// arena holding one surface's nodes, and the decoder that turns nested
// wire objects into flat arena subtrees.
//
// Components arrive over the wire as nested JSON objects with a "type"
// discriminant, an optional "id" and a free-form property bag. The decoder
// hoists nested children into the arena and rewrites child-bearing slots
// to id lists, so structural operations (replace, patch, append, remove)
// are index updates instead of graph surgery. Materialize reverses the
// rewrite for snapshot output.
//
// The Catalog describes the known kinds: category, container behavior,
// which properties carry children, and a permissive JSON schema used for
// soft validation. Hosts can extend the catalog with their own kinds; the
// built-in set lives in DefaultCatalog.
package component
