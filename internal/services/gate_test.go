package services

import "testing"

func TestComputeGateState(t *testing.T) {
	tests := []struct {
		name string
		in   GateInputs
		want GateState
	}{
		{
			name: "uninitialized session",
			in:   GateInputs{Session: SessionUninitialized},
			want: GateInitializing,
		},
		{
			name: "loading session",
			in:   GateInputs{Session: SessionLoading},
			want: GateInitializing,
		},
		{
			name: "unauthenticated session",
			in:   GateInputs{Session: SessionUnauthenticated},
			want: GateSignedOut,
		},
		{
			name: "authenticated, directory idle",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryIdle},
			want: GateProfilesLoading,
		},
		{
			name: "authenticated, directory loading",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryLoading},
			want: GateProfilesLoading,
		},
		{
			name: "authenticated, directory error",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryError},
			want: GateProfilesError,
		},
		{
			name: "loaded with no profiles",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryLoaded, ProfileCount: 0},
			want: GateNoProfiles,
		},
		{
			name: "loaded with profiles but no selection",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryLoaded, ProfileCount: 2},
			want: GateProfileSelectionRequired,
		},
		{
			name: "loaded with selection",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryLoaded, ProfileCount: 2, HasSelection: true},
			want: GateReady,
		},
		{
			name: "session outranks directory error",
			in:   GateInputs{Session: SessionUnauthenticated, Directory: DirectoryError, ProfileCount: 3, HasSelection: true},
			want: GateSignedOut,
		},
		{
			name: "directory outranks profile facts",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryLoading, ProfileCount: 3, HasSelection: true},
			want: GateProfilesLoading,
		},
		{
			name: "unknown session state is treated as initializing",
			in:   GateInputs{Session: SessionState("bogus")},
			want: GateInitializing,
		},
		{
			name: "unknown directory state is treated as loading",
			in:   GateInputs{Session: SessionAuthenticated, Directory: DirectoryState("bogus")},
			want: GateProfilesLoading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeGateState(tt.in); got != tt.want {
				t.Errorf("ComputeGateState(%+v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Every combination of inputs, including states that do not exist, must map
// to exactly one of the seven gate states.
func TestComputeGateState_Total(t *testing.T) {
	known := map[GateState]bool{
		GateInitializing:             true,
		GateSignedOut:                true,
		GateProfilesLoading:          true,
		GateProfilesError:            true,
		GateNoProfiles:               true,
		GateProfileSelectionRequired: true,
		GateReady:                    true,
	}

	sessions := []SessionState{
		SessionUninitialized, SessionLoading, SessionAuthenticated,
		SessionUnauthenticated, SessionState(""), SessionState("future-state"),
	}
	directories := []DirectoryState{
		DirectoryIdle, DirectoryLoading, DirectoryLoaded,
		DirectoryError, DirectoryState(""), DirectoryState("future-state"),
	}

	for _, session := range sessions {
		for _, directory := range directories {
			for _, count := range []int{0, 1, 5} {
				for _, selected := range []bool{false, true} {
					in := GateInputs{
						Session:      session,
						Directory:    directory,
						ProfileCount: count,
						HasSelection: selected,
					}
					got := ComputeGateState(in)
					if !known[got] {
						t.Fatalf("ComputeGateState(%+v) = %q, not a known gate state", in, got)
					}
				}
			}
		}
	}
}
