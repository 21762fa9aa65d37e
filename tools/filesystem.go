package tools

import (
	"context"
	"os"
	"strings"

	"github.com/m4xw311/chainsight/config"
	"github.com/m4xw311/chainsight/errors"
)

// ReadFileTool reads the content of a file, subject to the configured
// hidden-path globs.
type ReadFileTool struct {
	fsAccess *config.FilesystemAccess
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Reads the entire content of a file. Input: the file path."
}

func (t *ReadFileTool) Execute(ctx context.Context, input string) (string, error) {
	path := strings.TrimSpace(input)
	if path == "" {
		return "", errors.New("missing file path input")
	}

	hidden, err := isPathRestricted(path, t.fsAccess.Hidden)
	if err != nil {
		return "", err
	}
	if hidden {
		return "", errors.New("access denied: path '%s' is hidden", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read file '%s'", path)
	}
	return string(content), nil
}
