package reddit

// listingResponse is the envelope Reddit wraps search results in.
type listingResponse struct {
	Kind string `json:"kind"`
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string   `json:"kind"`
			Data linkData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// linkData holds the subset of a t3 (link) object this application uses.
type linkData struct {
	Title       string  `json:"title"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"`
}
