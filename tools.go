//go:build tools

package physcalc

import (
	_ "golang.org/x/tools/cmd/stringer"
)
