// Package checksum fingerprints SQL statements.
//
// A fingerprint is the SHA-256 of the statement after comments are removed
// and whitespace outside quoted literals is collapsed. Reformatting a
// statement keeps its fingerprint; changing an identifier, keyword or literal
// (an S3 path, a role ARN) changes it. Literal case is preserved because S3
// keys are case-sensitive.
//
// The catalog command prints fingerprints next to each statement and the
// pipelines log them, so a run can be matched to the exact SQL it executed.
package checksum
