package twitter

type createTweetRequest struct {
	Text string `json:"text"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type deleteTweetResponse struct {
	Data struct {
		Deleted bool `json:"deleted"`
	} `json:"data"`
}

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type timelineResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Meta struct {
		NextToken string `json:"next_token"`
	} `json:"meta"`
}
