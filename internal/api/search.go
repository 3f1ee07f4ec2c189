package api

import "context"

const searchPath = "/Search"

// All searches every resource type for term.
func (s SearchService) All(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath, term))
}

func (s SearchService) Cities(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath+"/City", term))
}

func (s SearchService) Departments(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath+"/Department", term))
}

func (s SearchService) Regions(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath+"/Region", term))
}

func (s SearchService) TouristicAttractions(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath+"/TouristicAttraction", term))
}

func (s SearchService) NaturalAreas(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath+"/NaturalArea", term))
}

func (s SearchService) Presidents(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath+"/President", term))
}

func (s SearchService) Airports(ctx context.Context, term string) Envelope {
	return get(ctx, s, textPath(searchPath+"/Airport", term))
}
