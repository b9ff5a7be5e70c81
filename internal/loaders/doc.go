// Package loaders turns uploaded files into ordered raw text units.
// Each supported format has its own loader package; the registry in this
// package dispatches on file extension.
package loaders
