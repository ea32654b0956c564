package cli

import (
	"reflect"
	"testing"
)

func TestRemoveFirstDashDash(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "empty slice",
			in:   []string{},
			want: []string{},
		},
		{
			name: "starts with --",
			in:   []string{"--", "-tags", "-top"},
			want: []string{"-tags", "-top"},
		},
		{
			name: "no --",
			in:   []string{"-tags", "-top"},
			want: []string{"-tags", "-top"},
		},
		{
			name: "only --",
			in:   []string{"--"},
			want: []string{},
		},
		{
			name: "-- in middle",
			in:   []string{"-top", "--", "-http=:8080"},
			want: []string{"-top", "--", "-http=:8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeFirstDashDash(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("removeFirstDashDash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseViewArgs(t *testing.T) {
	tests := []struct {
		name          string
		in            []string
		wantDir       string
		wantPprofArgs []string
	}{
		{
			name:          "empty args - current directory",
			in:            []string{},
			wantDir:       ".",
			wantPprofArgs: nil,
		},
		{
			name:          "only directory",
			in:            []string{"results/fork"},
			wantDir:       "results/fork",
			wantPprofArgs: []string{},
		},
		{
			name:          "only pprof args",
			in:            []string{"-http=:8080"},
			wantDir:       ".",
			wantPprofArgs: []string{"-http=:8080"},
		},
		{
			name:          "directory with pprof args",
			in:            []string{"out", "-tags"},
			wantDir:       "out",
			wantPprofArgs: []string{"-tags"},
		},
		{
			name:          "directory with -- separator and pprof args",
			in:            []string{"out", "--", "-tags", "-top"},
			wantDir:       "out",
			wantPprofArgs: []string{"-tags", "-top"},
		},
		{
			name:          "only -- uses current directory",
			in:            []string{"--", "-tags"},
			wantDir:       ".",
			wantPprofArgs: []string{"-tags"},
		},
		{
			name:          "directory with multiple pprof args no separator",
			in:            []string{"/tmp/run", "-top", "-nodefraction=0.1"},
			wantDir:       "/tmp/run",
			wantPprofArgs: []string{"-top", "-nodefraction=0.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDir, gotPprofArgs := parseViewArgs(tt.in)
			if gotDir != tt.wantDir {
				t.Errorf("parseViewArgs() gotDir = %v, want %v", gotDir, tt.wantDir)
			}
			if !reflect.DeepEqual(gotPprofArgs, tt.wantPprofArgs) {
				t.Errorf("parseViewArgs() gotPprofArgs = %v, want %v", gotPprofArgs, tt.wantPprofArgs)
			}
		})
	}
}
