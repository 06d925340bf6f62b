package models

// Label is a simulation action label. The vocabulary is closed; AllLabels
// fixes the order used for uniform draws, so it must never be reordered.
type Label string

const (
	LabelReadFile      Label = "SIM_READ_FILE"
	LabelListProcesses Label = "SIM_LIST_PROCESSES"
	LabelScanPort      Label = "SIM_SCAN_PORT"
	LabelNoOp          Label = "SIM_NO_OP"
)

// AllLabels lists the label vocabulary in draw order.
var AllLabels = []Label{
	LabelReadFile,
	LabelListProcesses,
	LabelScanPort,
	LabelNoOp,
}

// IsValid reports whether l is part of the label vocabulary.
func (l Label) IsValid() bool {
	switch l {
	case LabelReadFile, LabelListProcesses, LabelScanPort, LabelNoOp:
		return true
	}
	return false
}
