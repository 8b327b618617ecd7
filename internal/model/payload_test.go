package model

import (
	"encoding/json"
	"testing"
)

func TestPayloadUnmarshalVariants(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantKind PayloadKind
		wantVal  string
	}{
		{"string", `"data:application/pdf;base64,AAAA"`, PayloadText, "data:application/pdf;base64,AAAA"},
		{"object", `{ "name": "id.pdf", "size": 12 }`, PayloadJSON, `{"name":"id.pdf","size":12}`},
		{"array", `[1, 2]`, PayloadJSON, `[1,2]`},
		{"number", `42`, PayloadJSON, `42`},
		{"null", `null`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Payload
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.Kind != tt.wantKind || p.Value != tt.wantVal {
				t.Fatalf("got {%q %q}, want {%q %q}", p.Kind, p.Value, tt.wantKind, tt.wantVal)
			}
		})
	}
}

func TestPayloadMarshalRestoresJSONShape(t *testing.T) {
	doc := DocumentRef{FileName: "id.pdf", FileType: FileTypePDF}
	if err := json.Unmarshal([]byte(`{"name":"id.pdf"}`), &doc.File); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"fileName":"id.pdf","fileType":"pdf","file":{"name":"id.pdf"}}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestDocumentsValueScan(t *testing.T) {
	docs := Documents{
		{FileName: "a.pdf", FileType: FileTypePDF, File: TextPayload("x")},
		{FileName: "b.png", FileType: FileTypeImage, File: Payload{Kind: PayloadJSON, Value: `{"k":1}`}},
	}
	v, err := docs.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var back Documents
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(back) != 2 || back[0].File != docs[0].File || back[1].File != docs[1].File {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2000-01-01", "2000-01-01T00:00:00Z", "2000-01-01T00:00:00.000Z"} {
		d, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", s, err)
		}
		if d.Year() != 2000 || d.Month() != 1 || d.Day() != 1 {
			t.Errorf("ParseDate(%q) = %v", s, d)
		}
	}
	if _, err := ParseDate("01/01/2000"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}
