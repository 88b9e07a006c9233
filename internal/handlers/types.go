package handlers

// GenerateRequest is the request body for creating a short link.
type GenerateRequest struct {
	Body struct {
		Raw     string `doc:"The URL to shorten"                                  example:"https://example.com/very/long/path" json:"raw"`
		Expires int64  `doc:"Expiry as epoch milliseconds; 0 means never expires" example:"0"                                  json:"expires"`
	}
}

// GenerateResponse is the response for a successfully created short link.
type GenerateResponse struct {
	Body struct {
		ID      string `doc:"Public identifier of the stored link" example:"01hv2x8p9qf7n0d2k4m6s8t0vw"      json:"id"`
		URL     string `doc:"The full short URL"                   example:"https://sho.rt/Ab3xYz"           json:"url"`
		Expires int64  `doc:"Expiry as epoch milliseconds"         example:"0"                               json:"expires"`
	}
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"Ab3xYz" path:"code"`
}

// RedirectResponse points the client at the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}
