// Package preflight provides readiness checks for the filesystem paths, the
// request journal and the HTTP API bind address that quill depends on.
//
// These checks run in three contexts:
//   - The daemon calls RunAll and CheckAPIBind at startup and logs failures
//     as warnings before serving.
//   - `quill status` shows RunAll results in its Checks section.
//   - `quill config validate` fails when any RunAll check fails.
//
// Each check is gated by its config toggle; disabled features pass with a
// "Disabled" detail.
package preflight
