package api

import "context"

func (s TVChannelsService) List(ctx context.Context) Envelope {
	return get(ctx, s, "/TvChannel")
}

func (s TVChannelsService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, "/TvChannel", id, "")
}

func (s TVChannelsService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath("/TvChannel/name", name))
}
