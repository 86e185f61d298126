// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for building and committing a playlist cart:
//  1. [SearchView] : Free-text search against the proxy service
//  2. [ResultsView] : Browse results and stage tracks into the cart
//  3. [CartView] : Review and prune staged tracks
//  4. [ConfirmView] : Name the playlist and confirm the commit
//  5. [CommitView] : Monitor the ordered commit steps in real time
//  6. [ResultView] : Display the created playlist or the failure, including the
//     partial state where the playlist exists but holds no tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the Committer, providing non-blocking
// status reporting while a commit is in flight; input other than quit is ignored
// during that window so a cart can never be committed twice concurrently.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, x, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
