package aria

import _ "embed"

// Version is the release version, stamped from the VERSION file.
//
//go:embed VERSION
var Version string
