// Package pipeline sequences catalog collections through the runner.
//
// Reset drops then recreates every table. Load bulk-copies the staging tables
// from S3 and then populates the star schema from them. Neither pipeline
// wraps more than one statement in a transaction, and a failed statement
// never stops the statements after it.
package pipeline
