// Package fileops provides root-confined file access for rule documents.
//
// Every read goes through an *os.Root opened on the rules directory, so a
// relative path supplied by a client ("../../etc/passwd", an absolute path,
// or a symlink pointing outside) cannot escape it. Escapes surface as
// ordinary errors and are reported by callers like any other read failure.
//
//	root, err := fileops.OpenRoot(rulesDir)
//	if err != nil {
//	    return err
//	}
//	defer root.Close()
//
//	ok, err := fileops.Exists(root, "workflows/01-quick-tasks.mdc")
//	text, err := fileops.ReadText(root, "workflows/01-quick-tasks.mdc")
//
// ReadText decodes UTF-8 and normalises line endings to "\n". Content that
// is not valid UTF-8 yields ErrNotText.
package fileops
