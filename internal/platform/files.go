package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ytget/videodl/internal/model"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand        = "open"
	ExplorerCommand    = "explorer"
	XDGOpenCommand     = "xdg-open"
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	writeProbePattern  = ".videodl-probe-*"
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureWritable creates dirPath when missing and verifies a file can be
// written there. The probe file is removed before returning.
func EnsureWritable(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("%w: empty path", model.ErrOutputDirUnwritable)
	}
	if err := CreateDirectoryIfNotExists(dirPath); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrOutputDirUnwritable, dirPath, err)
	}
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrOutputDirUnwritable, dirPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", model.ErrOutputDirUnwritable, dirPath)
	}

	probe, err := os.CreateTemp(dirPath, writeProbePattern)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrOutputDirUnwritable, dirPath, err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: remove probe: %v", model.ErrOutputDirUnwritable, err)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// OpenFolder reveals path in the system file manager. A file is selected
// where the platform supports it; a directory is simply opened.
func OpenFolder(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case OSDarwin:
		if info.IsDir() {
			cmd = exec.Command(OpenCommand, absPath)
		} else {
			cmd = exec.Command(OpenCommand, MacOSSelectFlag, absPath)
		}
	case OSWindows:
		if info.IsDir() {
			cmd = exec.Command(ExplorerCommand, absPath)
		} else {
			cmd = exec.Command(ExplorerCommand, WindowsSelectParam+absPath)
		}
	default:
		if !info.IsDir() {
			absPath = filepath.Dir(absPath)
		}
		cmd = exec.Command(XDGOpenCommand, absPath)
	}
	return cmd.Start()
}
