// Package registry pulls in every input backend so their init registration
// runs. The entrypoint blank-imports this package.
package registry

import (
	_ "hogpd/internal/input" // Register terminal and evdev input backends
)
