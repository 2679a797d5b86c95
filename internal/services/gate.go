package services

// GateState is the single signal the portal shell renders from. Exactly one
// state holds at any time.
type GateState string

const (
	GateInitializing             GateState = "initializing"
	GateSignedOut                GateState = "signed-out"
	GateProfilesLoading          GateState = "profiles-loading"
	GateProfilesError            GateState = "profiles-error"
	GateNoProfiles               GateState = "no-profiles"
	GateProfileSelectionRequired GateState = "profile-selection-required"
	GateReady                    GateState = "ready"
)

// GateInputs is the full input domain of the gate computation.
type GateInputs struct {
	Session      SessionState
	Directory    DirectoryState
	ProfileCount int
	HasSelection bool
}

// ComputeGateState derives the gate state from its inputs. The function is
// pure and total: every input combination maps to exactly one state, checked
// in priority order. Session always wins over directory, directory over
// profile facts.
func ComputeGateState(in GateInputs) GateState {
	switch in.Session {
	case SessionUninitialized, SessionLoading:
		return GateInitializing
	case SessionUnauthenticated:
		return GateSignedOut
	case SessionAuthenticated:
		// fall through to directory
	default:
		return GateInitializing
	}

	switch in.Directory {
	case DirectoryIdle, DirectoryLoading:
		return GateProfilesLoading
	case DirectoryError:
		return GateProfilesError
	case DirectoryLoaded:
		// fall through to profile facts
	default:
		return GateProfilesLoading
	}

	if in.ProfileCount == 0 {
		return GateNoProfiles
	}
	if !in.HasSelection {
		return GateProfileSelectionRequired
	}
	return GateReady
}
