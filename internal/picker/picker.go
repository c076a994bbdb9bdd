// Package picker asks the user which folder or files to convert.
//
// Two implementations exist: Static returns paths that were already given
// on the command line, Terminal runs an interactive file browser. A user
// cancelling a picker is not an error; PickFolder reports ok=false and
// PickFiles returns no paths.
package picker

import "context"

// Picker chooses the input of a conversion run.
type Picker interface {
	// PickFolder returns the root folder of a batch run.
	PickFolder(ctx context.Context) (folder string, ok bool, err error)

	// PickFiles returns the files of a single-file run.
	PickFiles(ctx context.Context) ([]string, error)
}

// Static returns fixed paths without asking.
type Static struct {
	Folder string
	Files  []string
}

// PickFolder returns s.Folder; ok is false when it is empty.
func (s Static) PickFolder(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return s.Folder, s.Folder != "", nil
}

// PickFiles returns s.Files.
func (s Static) PickFiles(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Files, nil
}
