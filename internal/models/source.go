package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt is an int that tolerates sloppy source data: JSON numbers,
// numeric strings, floats and anything unparsable all decode without
// error (the latter to 0). Source records are partially populated by
// upstream generators and must never abort a run.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	s := string(data)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		s = strings.TrimSpace(s)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}

	*f = 0
	return nil
}

// ReconSignal is an optional upstream importance/confidence annotation on
// a source record. Pointer fields distinguish "absent" from zero.
type ReconSignal struct {
	Importance     *float64 `json:"importance,omitempty"`
	ScanConfidence *float64 `json:"scan_confidence,omitempty"`
}

// SourceRecord is one raw file record from the master input document.
// All fields are optional; normalization substitutes defaults.
type SourceRecord struct {
	ID          string       `json:"id,omitempty"`
	Filename    string       `json:"filename,omitempty"`
	FilePath    string       `json:"file_path,omitempty"`
	FilesizeKB  FlexInt      `json:"filesize_kb,omitempty"`
	Sensitivity string       `json:"sensitivity,omitempty"`
	ReconSignal *ReconSignal `json:"recon_signal,omitempty"`
}
