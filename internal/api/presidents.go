package api

import "context"

const presidentPath = "/President"

// List retrieves all presidents.
func (s PresidentsService) List(ctx context.Context) Envelope {
	return get(ctx, s, presidentPath)
}

// Get retrieves a president by ID.
func (s PresidentsService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, presidentPath, id, "")
}

// ByName retrieves presidents matching name.
func (s PresidentsService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath(presidentPath+"/name", name))
}
