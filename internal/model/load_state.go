package model

// LoadState is the state of a list or detail screen load.
// Idle -> Loading -> Loaded | Empty | Failed. Failed is rendered the same
// way as Empty, so it never leaves the server as its own value.
type LoadState string

const (
    LoadIdle    LoadState = "idle"
    LoadLoading LoadState = "loading"
    LoadLoaded  LoadState = "loaded"
    LoadEmpty   LoadState = "empty"
    LoadFailed  LoadState = "failed"
)

// StateFor returns the terminal state for a finished load of n items.
func StateFor(n int, err error) LoadState {
    if err != nil {
        return LoadFailed
    }
    if n == 0 {
        return LoadEmpty
    }
    return LoadLoaded
}

// Visible maps a state to what a client should display.
func (s LoadState) Visible() LoadState {
    if s == LoadFailed {
        return LoadEmpty
    }
    return s
}
