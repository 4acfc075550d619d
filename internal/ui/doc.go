// Package ui contains the Fyne desktop window: a single compact form that
// drives a session.Session and mirrors the application log. All UI strings
// go through Localization.
package ui
