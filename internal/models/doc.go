// package models defines the data model shared across the sync pipeline:
// canonical tracks, search candidates, match outcomes, and cached
// resolutions.
package models
