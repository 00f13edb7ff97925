// Package remote adapts a hosted identity backend's HTTP API to the
// identity interfaces. Backend failures arrive as auth/* wire codes and
// are translated to error kinds at this boundary; nothing above the
// adapter ever inspects a wire code.
package remote
