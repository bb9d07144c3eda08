package types

// GPResult is the JSON envelope every bridge invocation prints with --json.
// It mirrors the response-format-json contract of the vendor CLI: success
// reflects the geoprocessing outcome, Data carries tool output, Error is
// populated on failure.
type GPResult struct {
	Success  bool          `json:"success"`
	ExitCode int           `json:"exitCode"`
	Message  string        `json:"message"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Data     *GPResultData `json:"data,omitempty"`
	Error    *GPError      `json:"error,omitempty"`
}

func (r GPResult) GetError() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Msg
}

type GPResultData struct {
	Tool      string   `json:"tool"`
	Workspace string   `json:"workspace"`
	Messages  []string `json:"messages"` // vendor GetMessages() output
	Datasets  []string `json:"datasets,omitempty"`
	Versions  []string `json:"versions,omitempty"`
	ElapsedMs int64    `json:"elapsedMs"`
}

// GPError is the structured error block of a failed bridge call. Msg holds
// the human-readable vendor detail (e.g. an ExecuteError text); Messages
// carries the full geoprocessing message stack when available.
type GPError struct {
	Msg       string   `json:"msg"`
	Tool      string   `json:"tool"`
	Workspace string   `json:"workspace"`
	ErrorCode int      `json:"errorCode"`
	Messages  []string `json:"messages,omitempty"`
}
