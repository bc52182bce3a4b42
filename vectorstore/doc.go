// Package vectorstore defines the persistence contract for embedded
// records. The chromem subpackage provides the default embedded backend.
package vectorstore
