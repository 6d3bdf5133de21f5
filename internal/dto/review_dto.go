package dto

// Author, title and review bindings are never accepted from the payload;
// they are stamped from the authenticated caller and the request path.

type ReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type ReviewUpdateRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type CommentUpdateRequest struct {
	Text *string `json:"text"`
}
