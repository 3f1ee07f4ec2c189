package api

import "context"

func (s RadiosService) List(ctx context.Context) Envelope {
	return get(ctx, s, "/Radio")
}

func (s RadiosService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, "/Radio", id, "")
}

func (s RadiosService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath("/Radio/name", name))
}
