package api

import "context"

func (s AirportsService) List(ctx context.Context) Envelope {
	return get(ctx, s, "/Airport")
}

func (s AirportsService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, "/Airport", id, "")
}

func (s AirportsService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath("/Airport/name", name))
}
