// package repositories provides the persistence layer: a SQLite-backed
// cache of track resolutions so repeated runs skip the search
// round-trip for tracks already matched.
package repositories
