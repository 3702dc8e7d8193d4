// Package sanitizer normalizes free-text input before validation and
// storage: collapsing whitespace in names and locations, and bringing
// contact phone numbers into E.164 form.
package sanitizer
