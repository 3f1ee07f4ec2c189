package api

import "context"

const naturalAreaPath = "/NaturalArea"

// List retrieves all natural areas.
func (s NaturalAreasService) List(ctx context.Context) Envelope {
	return get(ctx, s, naturalAreaPath)
}

// Get retrieves a natural area by ID.
func (s NaturalAreasService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, naturalAreaPath, id, "")
}

// ByName retrieves natural areas matching name.
func (s NaturalAreasService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath(naturalAreaPath+"/name", name))
}

// ByDepartment retrieves the natural areas of a department.
func (s NaturalAreasService) ByDepartment(ctx context.Context, departmentID int) Envelope {
	return getByID(ctx, s, naturalAreaPath+"/department", departmentID, "")
}

// ByRegion retrieves the natural areas of a region.
func (s NaturalAreasService) ByRegion(ctx context.Context, regionID int) Envelope {
	return getByID(ctx, s, naturalAreaPath+"/region", regionID, "")
}

// ByType retrieves natural areas of a category (e.g. "Parque Nacional Natural").
func (s NaturalAreasService) ByType(ctx context.Context, areaType string) Envelope {
	return get(ctx, s, textPath(naturalAreaPath+"/type", areaType))
}
