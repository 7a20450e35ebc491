// Package scaffold creates the local working copy of a new site.
//
// The template repository is cloned into the project directory, its history
// is dropped and its dependencies installed. When a source repository was
// created the copy is committed and pushed there. Finally the configured
// editor is opened on the directory.
package scaffold
