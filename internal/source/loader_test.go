package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMasterMissingFile(t *testing.T) {
	_, err := LoadMaster(filepath.Join(t.TempDir(), "master-data.json"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestLoadMaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master-data.json")
	content := `[
		{"id": "f1", "filename": "a.txt", "filesize_kb": 10, "sensitivity": "high"},
		{"file_path": "/etc/passwd"},
		{"filename": "b.bin", "filesize_kb": "corrupt"}
	]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := LoadMaster(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("record count = %d, want 3", len(records))
	}
	if records[0].ID != "f1" || records[0].Sensitivity != "high" || records[0].FilesizeKB != 10 {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].FilePath != "/etc/passwd" {
		t.Errorf("second record = %+v", records[1])
	}
	if records[2].FilesizeKB != 0 {
		t.Errorf("corrupt filesize = %d, want 0", records[2].FilesizeKB)
	}
}

func TestLoadMasterMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master-data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadMaster(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
