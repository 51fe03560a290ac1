package hid

// Short item tags. The tag is the upper nibble of the item header; combined
// with the type and size fields it forms the prefix byte (e.g. UsagePage with
// a 1-byte payload encodes as 0x05).
const (
	tagInput         = 8  // Main
	tagOutput        = 9  // Main
	tagFeature       = 11 // Main
	tagCollection    = 10 // Main
	tagEndCollection = 12 // Main

	tagUsagePage      = 0 // Global
	tagLogicalMinimum = 1 // Global
	tagLogicalMaximum = 2 // Global
	tagReportSize     = 7 // Global
	tagReportID       = 8 // Global
	tagReportCount    = 9 // Global

	tagUsage        = 0 // Local
	tagUsageMinimum = 1 // Local
	tagUsageMaximum = 2 // Local
)

// Usage pages used by the report descriptors in this project.
const (
	UsagePageGenericDesktop = 0x01
	UsagePageButtons        = 0x09
	UsagePageKeyboard       = 0x07
	UsagePageLEDs           = 0x08
)

// Generic Desktop usages.
const (
	UsageMouse    = 0x02
	UsageKeyboard = 0x06
	UsagePointer  = 0x01
	UsageX        = 0x30
	UsageY        = 0x31
	UsageWheel    = 0x38
)

// Main item flag bits for Input/Output/Feature items.
const (
	MainData  = 0x00
	MainConst = 0x01
	MainArray = 0x00
	MainVar   = 0x02
	MainAbs   = 0x00
	MainRel   = 0x04
)

// Collection kinds.
const (
	CollectionPhysical    = 0x00
	CollectionApplication = 0x01
	CollectionLogical     = 0x02
)

// UsagePage is the Global Usage Page item.
type UsagePage struct{ Page uint32 }

func (i UsagePage) encode(e *encoder) error {
	return e.short(tagUsagePage, ItemTypeGlobal, dataU32(i.Page))
}

// Usage is the Local Usage item.
type Usage struct{ Usage uint32 }

func (i Usage) encode(e *encoder) error {
	return e.short(tagUsage, ItemTypeLocal, dataU32(i.Usage))
}

// UsageMinimum is the Local Usage Minimum item.
type UsageMinimum struct{ Min uint32 }

func (i UsageMinimum) encode(e *encoder) error {
	return e.short(tagUsageMinimum, ItemTypeLocal, dataU32(i.Min))
}

// UsageMaximum is the Local Usage Maximum item.
type UsageMaximum struct{ Max uint32 }

func (i UsageMaximum) encode(e *encoder) error {
	return e.short(tagUsageMaximum, ItemTypeLocal, dataU32(i.Max))
}

// LogicalMinimum is the Global Logical Minimum item (signed).
type LogicalMinimum struct{ Min int32 }

func (i LogicalMinimum) encode(e *encoder) error {
	return e.short(tagLogicalMinimum, ItemTypeGlobal, dataI32(i.Min))
}

// LogicalMaximum is the Global Logical Maximum item (signed).
type LogicalMaximum struct{ Max int32 }

func (i LogicalMaximum) encode(e *encoder) error {
	return e.short(tagLogicalMaximum, ItemTypeGlobal, dataI32(i.Max))
}

// ReportSize is the Global Report Size item (bits per field).
type ReportSize struct{ Bits uint32 }

func (i ReportSize) encode(e *encoder) error {
	return e.short(tagReportSize, ItemTypeGlobal, dataU32(i.Bits))
}

// ReportCount is the Global Report Count item (number of fields).
type ReportCount struct{ Count uint32 }

func (i ReportCount) encode(e *encoder) error {
	return e.short(tagReportCount, ItemTypeGlobal, dataU32(i.Count))
}

// ReportID is the Global Report ID item. All Input items following it belong
// to the identified report until the next ReportID.
type ReportID struct{ ID uint8 }

func (i ReportID) encode(e *encoder) error {
	return e.short(tagReportID, ItemTypeGlobal, Data{i.ID})
}

// Input is the Main Input item.
type Input struct{ Flags uint32 }

func (i Input) encode(e *encoder) error {
	return e.short(tagInput, ItemTypeMain, dataU32(i.Flags))
}

// Output is the Main Output item.
type Output struct{ Flags uint32 }

func (i Output) encode(e *encoder) error {
	return e.short(tagOutput, ItemTypeMain, dataU32(i.Flags))
}

// Feature is the Main Feature item.
type Feature struct{ Flags uint32 }

func (i Feature) encode(e *encoder) error {
	return e.short(tagFeature, ItemTypeMain, dataU32(i.Flags))
}

// Collection is the Main Collection item. Its children are encoded between
// the Collection and End Collection bytes.
type Collection struct {
	Kind  uint8
	Items []Item
}

func (c Collection) encode(e *encoder) error {
	if err := e.short(tagCollection, ItemTypeMain, Data{c.Kind}); err != nil {
		return err
	}
	for _, it := range c.Items {
		if it == nil {
			return errNilItem
		}
		if err := it.encode(e); err != nil {
			return err
		}
	}
	return e.short(tagEndCollection, ItemTypeMain, nil)
}

var errNilItem = errorString("hid: nil item in collection")

type errorString string

func (e errorString) Error() string { return string(e) }
