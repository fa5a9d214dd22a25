package genai

// JSON shapes of the generateContent REST call. Only the fields this service
// reads or writes are declared.

type wireRequest struct {
	Contents []wireContent `json:"contents"`
	Config   *wireConfig   `json:"generationConfig,omitempty"`
}

type wireConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts,omitempty"`
}

type wirePart struct {
	Text   string    `json:"text,omitempty"`
	Inline *wireBlob `json:"inlineData,omitempty"`
}

type wireBlob struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content      wireContent `json:"content"`
		FinishReason string      `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type wireError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// parts flattens every candidate's parts in response order.
func (r *wireResponse) parts() []wirePart {
	var out []wirePart
	for _, c := range r.Candidates {
		out = append(out, c.Content.Parts...)
	}
	return out
}

// abnormalFinish returns the first finish reason other than STOP.
func (r *wireResponse) abnormalFinish() string {
	for _, c := range r.Candidates {
		if c.FinishReason != "" && c.FinishReason != "STOP" {
			return c.FinishReason
		}
	}
	return ""
}
