// Package sanitizer normalizes untrusted string input before it reaches
// storage or comparison logic.
package sanitizer
