// Package chromem implements the vectorstore contract on top of the
// embedded chromem-go database. No external service is required; the
// persistent mode writes gob-encoded collections under a data directory.
package chromem
