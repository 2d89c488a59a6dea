// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a live dashboard for conversion jobs:
//  1. [JobListView] : Browse the polled job collection, cycle status filters
//  2. [ConfirmView] : Confirm a cancellation before it is sent
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Snapshots flow through a channel from the polling engine, so the list always
// shows the last good server read and a failed poll only surfaces a warning line.
//
// Keyboard navigation uses vim-style bindings (j/k, f, c, d, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
