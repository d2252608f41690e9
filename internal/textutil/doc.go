// Package textutil provides small string helpers for turning user input into
// safe filesystem names.
//
// SanitizeFolderName is used for project and folder names typed by artists;
// SanitizeToken produces lowercase tokens for lock and cache file names.
package textutil
