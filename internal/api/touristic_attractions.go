package api

import "context"

const attractionPath = "/TouristicAttraction"

// List retrieves all touristic attractions.
func (s TouristicAttractionsService) List(ctx context.Context) Envelope {
	return get(ctx, s, attractionPath)
}

// Get retrieves a touristic attraction by ID.
func (s TouristicAttractionsService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, attractionPath, id, "")
}

// ByName retrieves touristic attractions matching name.
func (s TouristicAttractionsService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath(attractionPath+"/name", name))
}

// ByCity retrieves the touristic attractions of a city.
func (s TouristicAttractionsService) ByCity(ctx context.Context, cityID int) Envelope {
	return getByID(ctx, s, attractionPath+"/city", cityID, "")
}

// ByDepartment retrieves the touristic attractions of a department.
func (s TouristicAttractionsService) ByDepartment(ctx context.Context, departmentID int) Envelope {
	return getByID(ctx, s, attractionPath+"/department", departmentID, "")
}

// ByRegion retrieves the touristic attractions of a region.
func (s TouristicAttractionsService) ByRegion(ctx context.Context, regionID int) Envelope {
	return getByID(ctx, s, attractionPath+"/region", regionID, "")
}
