package api

import "context"

const regionPath = "/Region"

func (s RegionsService) List(ctx context.Context) Envelope {
	return get(ctx, s, regionPath)
}

func (s RegionsService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, regionPath, id, "")
}

func (s RegionsService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath(regionPath+"/name", name))
}

// Departments retrieves the departments within a region.
func (s RegionsService) Departments(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, regionPath, id, "departments")
}

func (s RegionsService) NaturalAreas(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, regionPath, id, "naturalareas")
}

func (s RegionsService) TouristicAttractions(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, regionPath, id, "touristicattractions")
}
