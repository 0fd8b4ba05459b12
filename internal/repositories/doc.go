// Package repositories implements SQLite persistence for CLI sessions.
//
// A session row holds the access/refresh token pair and user id obtained
// through the OAuth bootstrap, so subsequent invocations can seed the
// credential store without re-authorizing. [Migrate] creates the schema;
// [SessionRepository] provides the data access operations.
package repositories
