// Package textutil provides filename and token sanitization helpers.
//
// Job titles come from user-supplied file names and inline submissions, so
// anything that ends up in a result file name flows through here first.
package textutil
