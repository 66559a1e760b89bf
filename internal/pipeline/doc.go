// Package pipeline holds the text transformations applied to designs on
// their way to a render surface or an export:
//   - image source rewriting from display names to loadable locators
//   - page assembly from wrapper templates
//   - explanation Markdown to sanitized HTML
//   - source highlighting for the code view
//
// Everything here is pure: no browser, no I/O. Rendering and capture live
// in the surface package and the root designstudio package.
package pipeline
