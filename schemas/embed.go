// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// BackupSnapshot is the schema of a version 1 backup snapshot document.
//
//go:embed backup_snapshot.schema.json
var BackupSnapshot string
