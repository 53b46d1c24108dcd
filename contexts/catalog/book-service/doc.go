// Package bookservice implements the book side of the catalog: submission,
// editing, deletion, and the filtered paginated listing.
//
// Layering:
// - application: CRUD and listing use-cases over explicit ports
// - adapters: memory store and gorm/postgres repository
//
// Ownership checks live in identity-access/authorization and are applied at
// the HTTP edge; this module treats submitter ids as plain data.
package bookservice
