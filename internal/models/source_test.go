package models

import (
	"encoding/json"
	"testing"
)

func TestFlexIntCoercion(t *testing.T) {
	tests := []struct {
		name string
		json string
		want FlexInt
	}{
		{"integer", `123`, 123},
		{"float truncates", `99.9`, 99},
		{"numeric string", `"456"`, 456},
		{"float string", `"12.7"`, 12},
		{"garbage string", `"large"`, 0},
		{"null", `null`, 0},
		{"bool", `true`, 0},
		{"negative", `-5`, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			if err := json.Unmarshal([]byte(tt.json), &f); err != nil {
				t.Fatalf("FlexInt must never error, got %v", err)
			}
			if f != tt.want {
				t.Errorf("FlexInt(%s) = %d, want %d", tt.json, f, tt.want)
			}
		})
	}
}

func TestSourceRecordPartial(t *testing.T) {
	raw := `{"filename": "a.txt", "filesize_kb": "oops", "recon_signal": {"importance": 0.9}}`

	var rec SourceRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("partial record must decode, got %v", err)
	}
	if rec.FilesizeKB != 0 {
		t.Errorf("filesize = %d, want 0 fallback", rec.FilesizeKB)
	}
	if rec.ReconSignal == nil || rec.ReconSignal.Importance == nil || *rec.ReconSignal.Importance != 0.9 {
		t.Error("recon_signal importance not decoded")
	}
	if rec.ReconSignal.ScanConfidence != nil {
		t.Error("absent scan_confidence should stay nil")
	}
}

func TestLabelVocabulary(t *testing.T) {
	if len(AllLabels) != 4 {
		t.Fatalf("label vocabulary size = %d, want 4", len(AllLabels))
	}
	for _, l := range AllLabels {
		if !l.IsValid() {
			t.Errorf("label %q not valid", l)
		}
	}
	if Label("SIM_DELETE_FILE").IsValid() {
		t.Error("unknown label reported valid")
	}
}

func TestItemTypeVocabulary(t *testing.T) {
	for _, it := range []ItemType{ItemTypeFile, ItemTypeProcess, ItemTypePort} {
		if !it.IsValid() {
			t.Errorf("item type %q not valid", it)
		}
	}
	if ItemType("registry").IsValid() {
		t.Error("unknown item type reported valid")
	}
}
