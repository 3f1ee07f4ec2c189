package api

import "context"

const departmentPath = "/Department"

// List retrieves all departments.
func (s DepartmentsService) List(ctx context.Context) Envelope {
	return get(ctx, s, departmentPath)
}

// Get retrieves a department by ID.
func (s DepartmentsService) Get(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, departmentPath, id, "")
}

// ByName retrieves departments matching name.
func (s DepartmentsService) ByName(ctx context.Context, name string) Envelope {
	return get(ctx, s, textPath(departmentPath+"/name", name))
}

// Cities retrieves the cities of a department.
func (s DepartmentsService) Cities(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, departmentPath, id, "cities")
}

// NaturalAreas retrieves the natural areas of a department.
func (s DepartmentsService) NaturalAreas(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, departmentPath, id, "naturalareas")
}

// TouristicAttractions retrieves the touristic attractions of a department.
func (s DepartmentsService) TouristicAttractions(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, departmentPath, id, "touristicattractions")
}

// Presidents retrieves the presidents born in a department.
func (s DepartmentsService) Presidents(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, departmentPath, id, "presidents")
}

// Region retrieves the region a department belongs to.
func (s DepartmentsService) Region(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, departmentPath, id, "region")
}
