// Package preflight provides readiness checks for the external services
// and filesystem paths the sensors depend on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup so a misconfigured backend or an
//     unwritable cache path fails loudly before the polling loop begins.
//   - The CLI "mylarsensor check" command renders the same results for
//     interactive troubleshooting.
//
// The catalog check is gated on the monitored sensor set; the plain
// variants never consult ComicVine.
package preflight
