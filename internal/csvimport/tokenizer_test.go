package csvimport

import (
	"reflect"
	"testing"
)

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    [][]string
	}{
		{
			name:    "empty input",
			content: "",
			want:    nil,
		},
		{
			name:    "single row without terminator",
			content: "a,b,c",
			want:    [][]string{{"a", "b", "c"}},
		},
		{
			name:    "trailing newline discarded",
			content: "a,b\nc,d\n",
			want:    [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:    "crlf terminators",
			content: "a,b\r\nc,d\r\n",
			want:    [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:    "bare carriage return terminator",
			content: "a,b\rc,d",
			want:    [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:    "quoted field with comma",
			content: `a,"b,c",d`,
			want:    [][]string{{"a", "b,c", "d"}},
		},
		{
			name:    "quoted field with newline",
			content: "a,\"b\nc\",d",
			want:    [][]string{{"a", "b\nc", "d"}},
		},
		{
			name:    "escaped quote inside quoted field",
			content: `a,"say ""hi""",b`,
			want:    [][]string{{"a", `say "hi"`, "b"}},
		},
		{
			name:    "empty fields preserved",
			content: "a,,c\n,,\nx,y,z",
			want:    [][]string{{"a", "", "c"}, {"", "", ""}, {"x", "y", "z"}},
		},
		{
			name:    "final row with one non-empty field kept",
			content: "a,b\n,c",
			want:    [][]string{{"a", "b"}, {"", "c"}},
		},
		{
			name:    "lone newline yields one empty row",
			content: "\n",
			want:    [][]string{{""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRows(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitRows(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
