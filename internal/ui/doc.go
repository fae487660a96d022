// Package ui implements an interactive terminal interface using
// bubbletea's Elm architecture.
//
// The TUI provides a multi-view sync workflow:
//  1. [LoadingView] : Fetch the liked-track library from Spotify
//  2. [TrackListView] : Browse the detected tracks
//  3. [ConfirmView] : Confirm the download run
//  4. [SyncView] : Monitor real-time resolution/download progress
//  5. [ResultView] : Display outcome counts and the failure report
//
// The [Model] implements bubbletea's standard Init/Update/View
// pattern. Progress updates flow through a channel from the sync
// engine, providing non-blocking status reporting during the run.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n,
// q) with contextual help via charmbracelet/bubbles/help.
package ui
