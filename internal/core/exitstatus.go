package core

// ExitStatus is the process-level outcome of one tsc invocation.
type ExitStatus int

const (
	// ExitSuccess means the requested mode completed without diagnostics.
	ExitSuccess ExitStatus = 0
	// ExitDiagnosticsPresentOutputsSkipped means errors were reported and nothing was written.
	ExitDiagnosticsPresentOutputsSkipped ExitStatus = 1
	// ExitDiagnosticsPresentOutputsGenerated means errors were reported but outputs were written.
	ExitDiagnosticsPresentOutputsGenerated ExitStatus = 2
	// ExitInvalidProjectOutputsSkipped is returned by build mode when a project file is missing.
	ExitInvalidProjectOutputsSkipped ExitStatus = 3
	// ExitProjectReferenceCycleOutputsSkipped is returned by build mode for circular references.
	ExitProjectReferenceCycleOutputsSkipped ExitStatus = 4
)

func (s ExitStatus) String() string {
	switch s {
	case ExitSuccess:
		return "Success"
	case ExitDiagnosticsPresentOutputsSkipped:
		return "DiagnosticsPresent_OutputsSkipped"
	case ExitDiagnosticsPresentOutputsGenerated:
		return "DiagnosticsPresent_OutputsGenerated"
	case ExitInvalidProjectOutputsSkipped:
		return "InvalidProject_OutputsSkipped"
	case ExitProjectReferenceCycleOutputsSkipped:
		return "ProjectReferenceCycle_OutputsSkipped"
	}
	return "Unknown"
}

// Code returns the numeric value handed to os.Exit.
func (s ExitStatus) Code() int {
	return int(s)
}
