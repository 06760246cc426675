// Package storage validates S3 source locations and checks that they exist
// before a load issues COPY statements against them.
package storage
