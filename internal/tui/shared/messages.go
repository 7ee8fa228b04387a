package shared

// ============================================================================
// Transition Messages
// These messages trigger screen transitions and are handled by AppModel
// ============================================================================

// TransitionToBrowseMsg is sent by the root prompt once the root looks valid.
type TransitionToBrowseMsg struct {
	Root string
}

// TransitionToPromptMsg sends the user back to the root prompt, showing Err.
type TransitionToPromptMsg struct {
	Err error
}

// ============================================================================
// Tree Messages
// Produced by the file tree widget's callbacks
// ============================================================================

// ActivatedMsg is sent when a row is double-clicked or activated with enter.
type ActivatedMsg struct {
	Path string
}

// SelectedMsg is sent when the selection moves and forwarding is enabled.
type SelectedMsg struct {
	Path string
}
