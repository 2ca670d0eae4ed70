// Package session holds the editing state of one image: the current image,
// the baseline snapshot interactions derive their candidates from, and the
// undo/redo history.
//
// # Interactions
//
// Two controllers stage changes before they are committed:
//
//   - Adjuster: one continuous-parameter adjustment (brightness, blur, noise,
//     ...) previewed against the baseline and applied with final parameters.
//   - Composer: discrete filters from one catalog stacked in order and
//     replayed from the baseline on every addition.
//
// At most one interaction is open at a time. While one is open the session
// rejects direct operations, commits and undo/redo with ErrInteractionActive;
// Load cancels it.
//
// # Rendering
//
// Every displayed frame goes to the session's Renderer: previews, commits,
// undo/redo, resets. Previews are never stored in the session.
//
// A Session is not safe for concurrent use.
package session
