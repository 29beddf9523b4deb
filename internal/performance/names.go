package performance

// Measure names recorded by the compiler. Program encloses IORead and
// ResolveReferences, Emit encloses IOWrite.
const (
	IORead            = "I/O Read"
	IOWrite           = "I/O Write"
	ResolveReferences = "ResolveReferences"
	Program           = "Program"
	Bind              = "Bind"
	Check             = "Check"
	Emit              = "Emit"
)
