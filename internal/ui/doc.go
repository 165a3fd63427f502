// Package ui contains the Bubble Tea program that hosts the overlay.
//
// Message flow:
//   - Key presses reach Model.Update as tea.KeyMsg and go to the local
//     observers in internal/input. Recognised input is posted to the command
//     queue; nothing in the key path touches panels.
//   - The global observer posts to the same queue from its socket goroutine.
//   - The command bus (internal/ui/command) delivers queued commands to
//     Update one at a time. handleCommandMsg applies the command to the
//     overlay manager and only then asks for the next one.
//
// Window management:
//   - Desktop implements overlay.WindowManager for the switcher's terminal.
//     It keeps panel frames, visibility, z-order and key focus, and reports
//     being on the UI context only while Update runs.
//   - Animated frame changes are batched during Update and played back as a
//     layout.Tween driven by tea.Tick messages. A newer animation or an
//     instant move supersedes the running one.
//   - Focusing the switcher's own pane is a tmux call, so it is returned as
//     a command rather than run inside Update.
//
// Rendering:
//   - View composites every visible panel, with its shadow, over a blank
//     canvas and appends a footer listing the active key bindings.
//   - The card presenter draws icon, name and pane target inside each
//     panel's content area and never sees the panel frame.
package ui
