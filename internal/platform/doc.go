package platform

// Package platform contains OS-facing helpers: output naming rules,
// directory checks, external tool lookup and file manager integration.
