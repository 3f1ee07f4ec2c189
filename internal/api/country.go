package api

import "context"

// Info retrieves the country record for Colombia.
func (s CountryService) Info(ctx context.Context) Envelope {
	return get(ctx, s, "/Country/Colombia")
}

// President retrieves the current president.
func (s CountryService) President(ctx context.Context) Envelope {
	return get(ctx, s, "/Country/President")
}
