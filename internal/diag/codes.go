package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Enum validation
	EnumInvalidTarget  Code = 1001
	EnumOpenExtension  Code = 1002
	EnumNonUnitVariant Code = 1003

	// Inspection
	InsPackageBroken    Code = 2001
	InsDirectiveUnknown Code = 2002

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	EnumInvalidTarget:   "Target is not an interface-based enum",
	EnumOpenExtension:   "Open-extension enums are not supported",
	EnumNonUnitVariant:  "Only unit variants are supported",
	InsPackageBroken:    "Package failed to load",
	InsDirectiveUnknown: "Unknown enumgen directive",
	IOLoadFileError:     "I/O load file error",
	IOWriteFileError:    "I/O write file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("ENUM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
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
