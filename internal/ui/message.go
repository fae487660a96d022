package ui

import (
	"github.com/desertthunder/likesync/internal/models"
	"github.com/desertthunder/likesync/internal/tasks"
)

// libraryFetchedMsg delivers the liked-track library or the fetch error.
type libraryFetchedMsg struct {
	tracks []models.Track
	err    error
}

// progressUpdateMsg carries one engine progress event into Update.
type progressUpdateMsg tasks.ProgressUpdate

// syncCompleteMsg delivers the final run result once the engine's
// progress channel closes.
type syncCompleteMsg struct {
	result *tasks.RunResult
	err    error
}
