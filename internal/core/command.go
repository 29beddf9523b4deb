package core

import "strings"

// CommandKind is the top-level dispatch decision, made before any option parsing.
type CommandKind uint8

const (
	// CommandCompile routes to the mode resolver.
	CommandCompile CommandKind = iota
	// CommandBuild routes to the build dispatcher.
	CommandBuild
)

func (k CommandKind) String() string {
	if k == CommandBuild {
		return "build"
	}
	return "compile"
}

// ResolveCommandKind inspects the first raw argument only. A build flag
// (-b, --b, -build, --build in any case) selects CommandBuild and the
// remaining arguments are returned for the build parser.
func ResolveCommandKind(args []string) (CommandKind, []string) {
	if len(args) == 0 {
		return CommandCompile, args
	}
	first := args[0]
	if !strings.HasPrefix(first, "-") {
		return CommandCompile, args
	}
	name := strings.TrimPrefix(first, "-")
	name = strings.TrimPrefix(name, "-")
	switch strings.ToLower(name) {
	case "build", "b":
		return CommandBuild, args[1:]
	}
	return CommandCompile, args
}
