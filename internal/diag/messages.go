package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// Code is the stable numeric identifier of a message.
type Code uint16

// ID renders the code the way users search for it, e.g. "TS5042".
func (c Code) ID() string {
	return fmt.Sprintf("TS%d", c)
}

// Message is a catalog entry. Text uses {0}, {1}, ... placeholders.
type Message struct {
	Code     Code
	Category Category
	Text     string
}

// Format substitutes positional arguments into the message text.
func (m *Message) Format(args ...string) string {
	return FormatText(m.Text, args)
}

// FormatText replaces {N} placeholders; unknown placeholders are kept verbatim.
func FormatText(text string, args []string) string {
	if len(args) == 0 || !strings.Contains(text, "{") {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			b.WriteByte(text[i])
			continue
		}
		end := strings.IndexByte(text[i:], '}')
		if end < 0 {
			b.WriteString(text[i:])
			break
		}
		n, err := strconv.Atoi(text[i+1 : i+end])
		if err != nil || n < 0 || n >= len(args) {
			b.WriteString(text[i : i+end+1])
		} else {
			b.WriteString(args[n])
		}
		i += end
	}
	return b.String()
}

func msg(code Code, cat Category, text string) *Message {
	m := &Message{Code: code, Category: cat, Text: text}
	catalog[code] = m
	return m
}

var catalog = make(map[Code]*Message)

// Lookup finds a message by code.
func Lookup(code Code) (*Message, bool) {
	m, ok := catalog[code]
	return m, ok
}

var (
	// command line
	OptionBuildMustBeFirstArgument = msg(6369, CategoryError, "Option '--build' must be the first command line argument.")
	UnknownCompilerOption          = msg(5023, CategoryError, "Unknown compiler option '{0}'.")
	UnknownBuildOption             = msg(5072, CategoryError, "Unknown build option '{0}'.")
	CompilerOptionExpectsArgument  = msg(6044, CategoryError, "Compiler option '{0}' expects an argument.")
	ArgumentForOptionMustBe        = msg(6046, CategoryError, "Argument for '{0}' option must be: {1}.")
	OptionsCannotBeCombined        = msg(6370, CategoryError, "Options '{0}' and '{1}' cannot be combined.")
	CompilerOptionRequiresType     = msg(5024, CategoryError, "Compiler option '{0}' requires a value of type {1}.")
	LocaleMustBeOfForm             = msg(6048, CategoryError, "Locale must be of the form <language> or <language>-<territory>. For example '{0}' or '{1}'.")
	UnsupportedLocale              = msg(6049, CategoryError, "Unsupported locale '{0}'.")
	ProjectCannotBeMixedWithFiles  = msg(5042, CategoryError, "Option 'project' cannot be mixed with source files on a command line.")
	CannotFindTsconfigAtDirectory  = msg(5057, CategoryError, "Cannot find a tsconfig.json file at the specified directory: '{0}'.")
	SpecifiedPathDoesNotExist      = msg(5058, CategoryError, "The specified path does not exist: '{0}'.")
	CurrentHostDoesNotSupport      = msg(5001, CategoryError, "The current host does not support the '{0}' option.")
	TsconfigAlreadyDefined         = msg(5054, CategoryError, "A 'tsconfig.json' file is already defined at: '{0}'.")
	SuccessfullyCreatedTsconfig    = msg(6071, CategoryMessage, "Successfully created a tsconfig.json file.")

	// config files
	CannotReadFile                   = msg(5083, CategoryError, "Cannot read file '{0}'.")
	FailedToParseFile                = msg(5014, CategoryError, "Failed to parse file '{0}': {1}.")
	FileNotFound                     = msg(6053, CategoryError, "File '{0}' not found.")
	NoInputsFound                    = msg(18003, CategoryError, "No inputs were found in config file '{0}'. Specified 'include' paths were '{1}' and 'exclude' paths were '{2}'.")
	CouldNotWriteFile                = msg(5033, CategoryError, "Could not write file '{0}': {1}.")
	ReferencedProjectMustBeComposite = msg(6306, CategoryError, "Referenced project '{0}' must have setting \"composite\": true.")
	OptionOnlyOnCommandLine          = msg(6266, CategoryError, "Option '{0}' can only be specified on command line.")
	ConfigCircularity                = msg(18000, CategoryError, "Circularity detected while resolving configuration: {0}")

	// program
	DuplicateIdentifier = msg(2300, CategoryError, "Duplicate identifier '{0}'.")
	CannotFindName      = msg(2304, CategoryError, "Cannot find name '{0}'.")
	NoExportedMember    = msg(2305, CategoryError, "Module '{0}' has no exported member '{1}'.")
	CannotFindModule    = msg(2307, CategoryError, "Cannot find module '{0}' or its corresponding type declarations.")

	// watch
	StartingCompilationInWatchMode = msg(6031, CategoryMessage, "Starting compilation in watch mode...")
	FileChangeDetected             = msg(6032, CategoryMessage, "File change detected. Starting incremental compilation...")
	FoundOneErrorWatching          = msg(6193, CategoryMessage, "Found 1 error. Watching for file changes.")
	FoundNErrorsWatching           = msg(6194, CategoryMessage, "Found {0} errors. Watching for file changes.")

	// build
	ProjectsInThisBuild              = msg(6355, CategoryMessage, "Projects in this build: {0}")
	ProjectOutOfDateOutputMissing    = msg(6352, CategoryMessage, "Project '{0}' is out of date because output file '{1}' does not exist")
	ProjectOutOfDateNewerInput       = msg(6350, CategoryMessage, "Project '{0}' is out of date because output '{1}' is older than input '{2}'")
	ProjectOutOfDateBuildInfoErrors  = msg(6419, CategoryMessage, "Project '{0}' is out of date because buildinfo file '{1}' indicates that program needs to report errors.")
	ProjectUpToDate                  = msg(6361, CategoryMessage, "Project '{0}' is up to date because newest input '{1}' is older than output '{2}'")
	BuildingProject                  = msg(6358, CategoryMessage, "Building project '{0}'...")
	SkippingBuildDependencyHasErrors = msg(6362, CategoryMessage, "Skipping build of project '{0}' because its dependency '{1}' has errors")
	DryBuildWouldDeleteFiles         = msg(6356, CategoryMessage, "A non-dry build would delete the following files: {0}")
	DryBuildWouldBuildProject        = msg(6357, CategoryMessage, "A non-dry build would build project '{0}'")
	ProjectReferencesCircular        = msg(6202, CategoryError, "Project references may not form a circular graph. Cycle detected: {0}")
)
