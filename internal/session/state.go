package session

// State is what the local reader remembers between runs.
type State struct {
	LastPost    string `json:"last_post,omitempty"`  // path of the post last opened
	LastQuery   string `json:"last_query,omitempty"` // last search, restored in the finder
	ShowOutline bool   `json:"show_outline"`
}

func Default() State {
	return State{ShowOutline: true}
}
