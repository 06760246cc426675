// Package catalog holds every SQL statement dwhetl issues, grouped into four
// ordered collections by kind: Drop, Create, Copy and Insert.
//
// Statements are immutable values built once per invocation from Params.
// Order within a collection is the execution order; a statement belongs to
// exactly one collection.
package catalog
