package api

import "context"

const cityPath = "/City"

// List retrieves all cities.
func (s CitiesService) List(ctx context.Context) Envelope {
	return get(ctx, s, cityPath)
}

// Get retrieves a city by ID.
func (s CitiesService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, cityPath, id, "")
}

// ByName retrieves cities matching name.
func (s CitiesService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath(cityPath+"/name", name))
}

// Department retrieves the department of a city.
func (s CitiesService) Department(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, cityPath, id, "department")
}

// President retrieves the president born in a city.
func (s CitiesService) President(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, cityPath, id, "president")
}

// TouristicAttractions retrieves the touristic attractions of a city.
func (s CitiesService) TouristicAttractions(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, cityPath, id, "touristicattractions")
}
