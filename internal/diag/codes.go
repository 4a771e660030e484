package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// resolution
	SemaInfo             Code = 3000
	SemaError            Code = 3001
	SemaScopeMismatch    Code = 3003
	SemaUnresolvedSymbol Code = 3005
	SemaUnknownNode      Code = 3010
	SemaCompareFailed    Code = 3011

	// input/output
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
	IOCacheError    Code = 4003

	// project
	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001

	// observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	SemaInfo:             "Resolution information",
	SemaError:            "Resolution error",
	SemaScopeMismatch:    "Scope enter/leave mismatch",
	SemaUnresolvedSymbol: "Unresolved symbol",
	SemaUnknownNode:      "Unknown syntax tree node",
	SemaCompareFailed:    "Symbol names could not be compared",
	IOLoadFileError:      "I/O load file error",
	IODecodeError:        "Tree document decode error",
	IOCacheError:         "Resolution cache error",
	ProjInfo:             "Project information",
	ProjInvalidManifest:  "Invalid project manifest",
	ObsInfo:              "Observability information",
	ObsTimings:           "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
