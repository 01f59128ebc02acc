package cmd

import (
	"reflect"
	"testing"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "1", want: []int{1}},
		{in: "1-3", want: []int{1, 2, 3}},
		{in: "5, 1-2 ,2", want: []int{5, 1, 2}},
		{in: "365-366", want: []int{365, 366}},
		{in: "", wantErr: true},
		{in: "0", wantErr: true},
		{in: "367", wantErr: true},
		{in: "3-1", wantErr: true},
		{in: "a-b", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDays(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDays(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDays(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseDays(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
